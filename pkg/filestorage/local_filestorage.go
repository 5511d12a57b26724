package filestorage

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// StoredFile — результат загрузки: всё, что нужно, чтобы сослаться на
// файл из документа заказа или сообщения.
type StoredFile struct {
	URL  string
	Path string
	Name string
	Type string
}

// FileStorageInterface определяет контракт внешнего хранилища файлов.
// Размер файла проверяется на границе HTTP до вызова этого слоя.
type FileStorageInterface interface {
	Save(file io.Reader, originalFileName string, folder string, ownerID uint64) (StoredFile, error)
	Delete(filePath string) error
}

type LocalFileStorage struct {
	basePath string
}

func NewLocalFileStorage(basePath string) (FileStorageInterface, error) {
	if _, err := os.Stat(basePath); os.IsNotExist(err) {
		if err := os.MkdirAll(basePath, 0o755); err != nil {
			return nil, fmt.Errorf("не удалось создать директорию: %w", err)
		}
	}
	return &LocalFileStorage{basePath: basePath}, nil
}

func (s *LocalFileStorage) Save(file io.Reader, originalFileName string, folder string, ownerID uint64) (StoredFile, error) {
	ext := filepath.Ext(originalFileName)
	uniqueFileName := fmt.Sprintf("%s-%s%s", time.Now().Format("2006-01-02"), uuid.New().String(), ext)

	// Поддиректория: папка назначения + владелец, чтобы избежать коллизий.
	relDir := filepath.Join(folder, fmt.Sprintf("%d", ownerID))
	fullDirPath := filepath.Join(s.basePath, relDir)
	if err := os.MkdirAll(fullDirPath, 0o755); err != nil {
		return StoredFile{}, err
	}

	dst, err := os.Create(filepath.Join(fullDirPath, uniqueFileName))
	if err != nil {
		return StoredFile{}, err
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		return StoredFile{}, err
	}

	relPath := filepath.ToSlash(filepath.Join(relDir, uniqueFileName))
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return StoredFile{
		URL:  "/uploads/" + relPath,
		Path: relPath,
		Name: originalFileName,
		Type: contentType,
	}, nil
}

func (s *LocalFileStorage) Delete(fileURL string) error {
	// fileURL приходит в виде "/uploads/folder/42/file.jpg",
	// отсекаем префикс, чтобы получить путь относительно basePath.
	relativePath := strings.TrimPrefix(fileURL, "/uploads/")
	fullPath := filepath.Join(s.basePath, relativePath)

	// Если файла и так нет, считаем операцию успешной.
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		return nil
	}

	return os.Remove(fullPath)
}
