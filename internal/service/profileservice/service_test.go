package profileservice_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"hireme/internal/domain"
	apperror "hireme/internal/errors"
	"hireme/internal/pkg/logger"
	"hireme/internal/service/profileservice"
)

const maxImageBytes = 5 * 1024 * 1024

// MockUserRepository é uma implementação mock da interface domain.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Save(ctx domain.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx domain.Context, email string) (domain.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx domain.Context, id string) (domain.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx domain.Context, user domain.User) (domain.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(domain.User), args.Error(1)
}

// MockBlobStore é uma implementação mock da interface blob.Store.
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, key, contentType, data)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) Delete(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func storedUser() domain.User {
	return domain.User{
		ID:           "user-1",
		FirstName:    "Jane",
		LastName:     "Doe",
		Email:        "jane@example.com",
		PasswordHash: "hash",
		Role:         domain.RoleJobSeeker,
		Country:      "India",
	}
}

func strPtr(s string) *string { return &s }

// TestUpdateProfile_PartialMerge testa que apenas os campos enviados mudam.
func TestUpdateProfile_PartialMerge(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockBlob := new(MockBlobStore)
	mockLogger := logger.NewLogger("error")

	svc := profileservice.NewService(mockRepo, mockBlob, maxImageBytes, mockLogger)

	mockRepo.On("FindByID", mock.Anything, "user-1").Return(storedUser(), nil)
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		// Somente phone e city mudam; o restante permanece intocado
		return u.Phone == "+5511999990000" && u.City == "São Paulo" &&
			u.FirstName == "Jane" && u.Email == "jane@example.com" &&
			u.Role == domain.RoleJobSeeker
	})).Return(domain.User{
		ID: "user-1", FirstName: "Jane", LastName: "Doe", Email: "jane@example.com",
		PasswordHash: "hash", Phone: "+5511999990000", Role: domain.RoleJobSeeker,
		Country: "India", City: "São Paulo",
	}, nil)

	updated, err := svc.UpdateProfile(context.Background(), "user-1", domain.ProfileUpdate{
		Phone: strPtr("+5511999990000"),
		City:  strPtr("São Paulo"),
	})

	assert.NoError(t, err)
	assert.Equal(t, "+5511999990000", updated.Phone)
	assert.Equal(t, "São Paulo", updated.City)
	assert.Equal(t, "Jane", updated.FirstName)
	assert.Empty(t, updated.PasswordHash)
	mockRepo.AssertExpectations(t)
}

// TestUpdateProfile_Idempotent testa que reaplicar o mesmo payload produz o
// mesmo estado final.
func TestUpdateProfile_Idempotent(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockBlob := new(MockBlobStore)
	mockLogger := logger.NewLogger("error")

	svc := profileservice.NewService(mockRepo, mockBlob, maxImageBytes, mockLogger)

	afterFirst := storedUser()
	afterFirst.City = "Mumbai"

	// Primeira aplicação parte do registro original; a segunda parte do já
	// atualizado. O merge deve convergir para o mesmo estado.
	mockRepo.On("FindByID", mock.Anything, "user-1").Return(storedUser(), nil).Once()
	mockRepo.On("FindByID", mock.Anything, "user-1").Return(afterFirst, nil).Once()
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.City == "Mumbai"
	})).Return(afterFirst, nil).Twice()

	update := domain.ProfileUpdate{City: strPtr("Mumbai")}

	first, err := svc.UpdateProfile(context.Background(), "user-1", update)
	assert.NoError(t, err)
	second, err := svc.UpdateProfile(context.Background(), "user-1", update)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
	mockRepo.AssertExpectations(t)
}

// TestUpdateProfile_InvalidRole testa a rejeição antes de qualquer escrita.
func TestUpdateProfile_InvalidRole(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockBlob := new(MockBlobStore)
	mockLogger := logger.NewLogger("error")

	svc := profileservice.NewService(mockRepo, mockBlob, maxImageBytes, mockLogger)

	_, err := svc.UpdateProfile(context.Background(), "user-1", domain.ProfileUpdate{
		Role: strPtr("Admin"),
	})

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// TestUpdateProfile_InvalidEmail testa a forma mínima de email.
func TestUpdateProfile_InvalidEmail(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockBlob := new(MockBlobStore)
	mockLogger := logger.NewLogger("error")

	svc := profileservice.NewService(mockRepo, mockBlob, maxImageBytes, mockLogger)

	for _, email := range []string{"semarroba", "a@b", "a @b.com", "@dominio.com"} {
		_, err := svc.UpdateProfile(context.Background(), "user-1", domain.ProfileUpdate{
			Email: strPtr(email),
		})
		assert.Error(t, err, "email %q deveria ser rejeitado", email)
		assert.IsType(t, &apperror.ValidationError{}, err)
	}

	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// TestUploadProfileImage_UnsupportedType testa o gate de tipo de mídia.
func TestUploadProfileImage_UnsupportedType(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockBlob := new(MockBlobStore)
	mockLogger := logger.NewLogger("error")

	svc := profileservice.NewService(mockRepo, mockBlob, maxImageBytes, mockLogger)

	_, err := svc.UploadProfileImage(context.Background(), "user-1", []byte("%PDF-1.7"), "application/pdf")

	assert.Error(t, err)
	assert.IsType(t, &apperror.UnsupportedMediaTypeError{}, err)
	mockBlob.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// TestUploadProfileImage_TooLarge testa o teto de tamanho (6 MiB contra 5 MiB).
func TestUploadProfileImage_TooLarge(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockBlob := new(MockBlobStore)
	mockLogger := logger.NewLogger("error")

	svc := profileservice.NewService(mockRepo, mockBlob, maxImageBytes, mockLogger)

	oversized := make([]byte, 6*1024*1024)

	_, err := svc.UploadProfileImage(context.Background(), "user-1", oversized, "image/jpeg")

	assert.Error(t, err)
	assert.IsType(t, &apperror.PayloadTooLargeError{}, err)
	mockBlob.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// TestUploadProfileImage_Empty testa upload sem bytes.
func TestUploadProfileImage_Empty(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockBlob := new(MockBlobStore)
	mockLogger := logger.NewLogger("error")

	svc := profileservice.NewService(mockRepo, mockBlob, maxImageBytes, mockLogger)

	_, err := svc.UploadProfileImage(context.Background(), "user-1", nil, "image/png")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
}

// TestUploadProfileImage_Success testa o caminho feliz com substituição da
// referência e expurgo do blob anterior.
func TestUploadProfileImage_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockBlob := new(MockBlobStore)
	mockLogger := logger.NewLogger("error")

	svc := profileservice.NewService(mockRepo, mockBlob, maxImageBytes, mockLogger)

	existing := storedUser()
	existing.ProfileImage = strPtr("http://blob/old.jpg")

	data := []byte{0xFF, 0xD8, 0xFF, 0xE0} // magic bytes de JPEG

	mockRepo.On("FindByID", mock.Anything, "user-1").Return(existing, nil)
	mockBlob.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		// A chave do blob é derivada do ID do usuário
		return strings.HasPrefix(key, "profile-images/user-user-1")
	}), "image/jpeg", data).Return("http://blob/new.jpg", nil)
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.ProfileImage != nil && *u.ProfileImage == "http://blob/new.jpg"
	})).Return(domain.User{ID: "user-1", ProfileImage: strPtr("http://blob/new.jpg")}, nil)
	mockBlob.On("Delete", mock.Anything, "http://blob/old.jpg").Return(nil)

	updated, err := svc.UploadProfileImage(context.Background(), "user-1", data, "image/jpeg; charset=binary")

	assert.NoError(t, err)
	assert.NotNil(t, updated.ProfileImage)
	assert.Equal(t, "http://blob/new.jpg", *updated.ProfileImage)
	mockRepo.AssertExpectations(t)
	mockBlob.AssertExpectations(t)
}

// TestUploadProfileImage_BlobFailure testa a tradução para erro de upstream
// sem tocar o registro do usuário.
func TestUploadProfileImage_BlobFailure(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockBlob := new(MockBlobStore)
	mockLogger := logger.NewLogger("fatal")

	svc := profileservice.NewService(mockRepo, mockBlob, maxImageBytes, mockLogger)

	mockRepo.On("FindByID", mock.Anything, "user-1").Return(storedUser(), nil)
	mockBlob.On("Upload", mock.Anything, mock.Anything, "image/png", mock.Anything).
		Return("", assert.AnError)

	_, err := svc.UploadProfileImage(context.Background(), "user-1", []byte{0x89, 0x50}, "image/png")

	assert.Error(t, err)
	assert.IsType(t, &apperror.UpstreamStorageError{}, err)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// TestDeleteProfileImage_NoImage testa a semântica de no-op.
func TestDeleteProfileImage_NoImage(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockBlob := new(MockBlobStore)
	mockLogger := logger.NewLogger("error")

	svc := profileservice.NewService(mockRepo, mockBlob, maxImageBytes, mockLogger)

	mockRepo.On("FindByID", mock.Anything, "user-1").Return(storedUser(), nil)

	user, err := svc.DeleteProfileImage(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Nil(t, user.ProfileImage)
	assert.Empty(t, user.PasswordHash)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	mockBlob.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// TestDeleteProfileImage_Success testa a anulação da referência e o expurgo.
func TestDeleteProfileImage_Success(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockBlob := new(MockBlobStore)
	mockLogger := logger.NewLogger("error")

	svc := profileservice.NewService(mockRepo, mockBlob, maxImageBytes, mockLogger)

	existing := storedUser()
	existing.ProfileImage = strPtr("http://blob/old.jpg")

	mockRepo.On("FindByID", mock.Anything, "user-1").Return(existing, nil)
	mockRepo.On("Update", mock.Anything, mock.MatchedBy(func(u domain.User) bool {
		return u.ProfileImage == nil
	})).Return(domain.User{ID: "user-1"}, nil)
	mockBlob.On("Delete", mock.Anything, "http://blob/old.jpg").Return(nil)

	user, err := svc.DeleteProfileImage(context.Background(), "user-1")

	assert.NoError(t, err)
	assert.Nil(t, user.ProfileImage)
	mockRepo.AssertExpectations(t)
	mockBlob.AssertExpectations(t)
}
