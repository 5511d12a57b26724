package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSelectableStatus(t *testing.T) {
	assert.False(t, IsSelectableStatus(StatusPendingConfirmation), "начальный статус выставляется только при создании")
	assert.False(t, IsSelectableStatus("UNKNOWN"))
	assert.False(t, IsSelectableStatus(""))

	for _, status := range []string{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled} {
		assert.True(t, IsSelectableStatus(status), "статус %q должен быть выбираемым", status)
	}
}

func TestOpenAndClosedStatusesCoverAll(t *testing.T) {
	assert.ElementsMatch(t, AllStatuses, append(append([]string{}, OpenStatuses...), ClosedStatuses...))

	for _, status := range OpenStatuses {
		assert.True(t, IsOpenStatus(status))
	}
	for _, status := range ClosedStatuses {
		assert.False(t, IsOpenStatus(status))
	}
}

func TestEveryStatusHasLabel(t *testing.T) {
	for _, status := range AllStatuses {
		assert.NotEmpty(t, StatusLabels[status], "у статуса %q нет человекочитаемого названия", status)
	}
}
