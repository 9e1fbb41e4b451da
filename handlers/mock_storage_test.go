package handlers

import "mime/multipart"

type mockStorage struct {
	UploadMenuImageFn func(file multipart.File, filename, contentType string) (string, string, error)
	SignedUploadURLFn func(key, contentType string) (string, error)
	DeleteFn          func(key string) error
	DeleteCalls       []string
	UploadCallCount   int
}

func newMockStorage() *mockStorage {
	return &mockStorage{
		DeleteCalls: []string{},
	}
}

func (m *mockStorage) UploadMenuImage(file multipart.File, filename, contentType string) (string, string, error) {
	m.UploadCallCount++
	if m.UploadMenuImageFn != nil {
		return m.UploadMenuImageFn(file, filename, contentType)
	}
	return "https://storage.googleapis.com/test-bucket/menu/test_image.jpg", "menu/test_image.jpg", nil
}

func (m *mockStorage) SignedUploadURL(key, contentType string) (string, error) {
	if m.SignedUploadURLFn != nil {
		return m.SignedUploadURLFn(key, contentType)
	}
	return "https://storage.googleapis.com/test-bucket/" + key + "?signed=1", nil
}

func (m *mockStorage) Delete(key string) error {
	m.DeleteCalls = append(m.DeleteCalls, key)
	if m.DeleteFn != nil {
		return m.DeleteFn(key)
	}
	return nil
}

func (m *mockStorage) PublicURL(key string) string {
	return "https://storage.googleapis.com/test-bucket/" + key
}
