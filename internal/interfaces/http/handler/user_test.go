package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"testing"
	"time"

	identityapp "github.com/francoragout/norviguet-control-fletes-api-sub000/internal/application/identity"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/identity"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/domain/shared"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/infrastructure/storage"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/internal/interfaces/http/dto"
	"github.com/francoragout/norviguet-control-fletes-api-sub000/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testMaxImageSize = 64

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type userRoutes struct {
	engine *gin.Engine
	repo   *testutil.MockUserRepository
	blobs  *storage.MemoryBlobStorage
}

func setupUserRoutes(actor shared.Actor) userRoutes {
	repo := new(testutil.MockUserRepository)
	blobs := storage.NewMemoryBlobStorage()
	svc := identityapp.NewUserService(repo, blobs, nil, shared.NoOpTransactionScope{},
		identityapp.UserServiceConfig{MaxImageSize: testMaxImageSize}, zap.NewNop())
	h := NewUserHandler(NewBaseHandler(false, 10), svc, testMaxImageSize)

	engine := newTestEngine(actor)
	engine.GET("/users/me", h.GetMe)
	engine.PUT("/users/me", h.UpdateMe)
	engine.PUT("/users/me/image", h.UploadImage)
	engine.DELETE("/users/me/image", h.DeleteImage)
	engine.GET("/users/me/image", h.GetMyImageURL)
	engine.GET("/users/:id/image", h.GetImageURL)
	engine.PATCH("/users/:id/role", h.UpdateRole)
	return userRoutes{engine: engine, repo: repo, blobs: blobs}
}

func storedUser(id uint, role identity.Role) *identity.User {
	u, _ := identity.NewUserWithRole("ana@norviguet.test", "Ana", "secret123", role)
	u.ID = id
	return u
}

func multipartImage(t *testing.T, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="avatar"`)
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestUserHandler_UploadImage(t *testing.T) {
	t.Run("stores the image and sniffs generic content types", func(t *testing.T) {
		r := setupUserRoutes(testutil.LogisticsActor)
		r.repo.On("FindByID", mock.Anything, uint(2)).Return(storedUser(2, identity.RoleLogistics), nil)
		var saved *identity.User
		r.repo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*identity.User")).Run(func(args mock.Arguments) {
			saved = args.Get(1).(*identity.User)
		}).Return(nil)

		body, ct := multipartImage(t, "application/octet-stream", pngHeader)
		w := testutil.PerformRequest(t, r.engine, http.MethodPut, "/users/me/image", body,
			map[string]string{"Content-Type": ct})

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.True(t, testutil.DecodeData[identityapp.UserResponse](t, w).HasImage)
		require.NotNil(t, saved)
		assert.Regexp(t, `^profile-images/2/.+\.png$`, saved.ImageKey)
		data, contentType, ok := r.blobs.Get(saved.ImageKey)
		require.True(t, ok)
		assert.Equal(t, "image/png", contentType)
		assert.Equal(t, pngHeader, data)
	})

	t.Run("rejects unsupported types", func(t *testing.T) {
		r := setupUserRoutes(testutil.LogisticsActor)

		body, ct := multipartImage(t, "text/plain", []byte("hello"))
		w := testutil.PerformRequest(t, r.engine, http.MethodPut, "/users/me/image", body,
			map[string]string{"Content-Type": ct})

		testutil.AssertErrorCode(t, w, http.StatusBadRequest, identityapp.CodeInvalidImageType)
		r.repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("rejects oversized images", func(t *testing.T) {
		r := setupUserRoutes(testutil.LogisticsActor)

		big := append(append([]byte{}, pngHeader...), make([]byte, testMaxImageSize)...)
		body, ct := multipartImage(t, "image/png", big)
		w := testutil.PerformRequest(t, r.engine, http.MethodPut, "/users/me/image", body,
			map[string]string{"Content-Type": ct})

		testutil.AssertErrorCode(t, w, http.StatusBadRequest, identityapp.CodeImageTooLarge)
	})

	t.Run("missing file part", func(t *testing.T) {
		r := setupUserRoutes(testutil.LogisticsActor)

		w := testutil.PerformRequest(t, r.engine, http.MethodPut, "/users/me/image", nil)

		testutil.AssertErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeBadRequest)
	})
}

func TestUserHandler_DeleteImage_NoImage(t *testing.T) {
	r := setupUserRoutes(testutil.LogisticsActor)
	r.repo.On("FindByID", mock.Anything, uint(2)).Return(storedUser(2, identity.RoleLogistics), nil)

	w := testutil.PerformRequest(t, r.engine, http.MethodDelete, "/users/me/image", nil)

	testutil.AssertErrorCode(t, w, http.StatusNotFound, identityapp.CodeImageNotFound)
}

func TestUserHandler_ImageURL(t *testing.T) {
	withImage := func(id uint) *identity.User {
		u := storedUser(id, identity.RoleLogistics)
		u.SetImage("profile-images/2/avatar.png")
		return u
	}

	t.Run("ttl is capped", func(t *testing.T) {
		r := setupUserRoutes(testutil.LogisticsActor)
		r.repo.On("FindByID", mock.Anything, uint(2)).Return(withImage(2), nil)

		w := testutil.PerformRequest(t, r.engine, http.MethodGet, "/users/me/image?ttl=99999", nil)

		require.Equal(t, http.StatusOK, w.Code)
		resp := testutil.DecodeData[identityapp.ImageURLResponse](t, w)
		assert.Contains(t, resp.URL, "profile-images/2/avatar.png")
		assert.WithinDuration(t, time.Now().Add(identityapp.MaxImageURLTTLMinutes*time.Minute), resp.ExpiresAt, time.Minute)
	})

	t.Run("another user's image", func(t *testing.T) {
		r := setupUserRoutes(testutil.AdminActor)
		r.repo.On("FindByID", mock.Anything, uint(2)).Return(withImage(2), nil)

		w := testutil.PerformRequest(t, r.engine, http.MethodGet, "/users/2/image", nil)

		require.Equal(t, http.StatusOK, w.Code)
		resp := testutil.DecodeData[identityapp.ImageURLResponse](t, w)
		assert.WithinDuration(t, time.Now().Add(identityapp.DefaultImageURLTTLMinutes*time.Minute), resp.ExpiresAt, time.Minute)
	})

	t.Run("non numeric ttl", func(t *testing.T) {
		r := setupUserRoutes(testutil.LogisticsActor)

		w := testutil.PerformRequest(t, r.engine, http.MethodGet, "/users/me/image?ttl=soon", nil)

		testutil.AssertErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeBadRequest)
	})
}

func TestUserHandler_UpdateMe_UsesActorID(t *testing.T) {
	r := setupUserRoutes(testutil.LogisticsActor)
	r.repo.On("FindByID", mock.Anything, uint(2)).Return(storedUser(2, identity.RoleLogistics), nil)
	r.repo.On("ExistsByEmail", mock.Anything, "ana.p@norviguet.test", uint(2)).Return(false, nil)
	r.repo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

	w := testutil.PerformRequest(t, r.engine, http.MethodPut, "/users/me",
		identityapp.UpdateProfileRequest{Email: "ana.p@norviguet.test", Name: "Ana P", Version: 1})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	user := testutil.DecodeData[identityapp.UserResponse](t, w)
	assert.Equal(t, "Ana P", user.Name)
	r.repo.AssertExpectations(t)
}

func TestUserHandler_UpdateRole_InvalidRole(t *testing.T) {
	r := setupUserRoutes(testutil.AdminActor)

	w := testutil.PerformRequest(t, r.engine, http.MethodPatch, "/users/2/role",
		map[string]any{"role": "Owner", "version": 1})

	testutil.AssertErrorCode(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	r.repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}
