package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

// OrderUpdate — одно сообщение в ленте заказа, человеческое или
// системное. После создания неизменяемо, возможно только удаление.
// IsAdminOrTeamMember — снимок роли автора на момент публикации;
// право на удаление оценивается именно по нему, а не по текущей роли.
type OrderUpdate struct {
	ID                  uint64      `json:"id"`
	OrderID             uint64      `json:"orderId"`
	UserID              uint64      `json:"userId"`
	UserName            string      `json:"userName"`
	UserEmail           string      `json:"userEmail"`
	UserPhotoURL        null.String `json:"userPhotoURL"`
	IsAdminOrTeamMember bool        `json:"isAdminOrTeamMember"`
	IsSystem            bool        `json:"isSystem"`
	Text                string      `json:"text"`
	AttachmentURL       null.String `json:"attachmentURL"`
	AttachmentName      null.String `json:"attachmentName"`
	AttachmentType      null.String `json:"attachmentType"`
	CreatedAt           time.Time   `json:"createdAt"`
}
