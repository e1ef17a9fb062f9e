package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gazer/client-registry/internal/constants"
	"github.com/gazer/client-registry/internal/middleware"
	"github.com/gazer/client-registry/internal/models"
	"github.com/gazer/client-registry/internal/repository"
	"github.com/gazer/client-registry/internal/services"
	"github.com/gazer/client-registry/internal/storage"
	"github.com/gazer/client-registry/internal/testutil"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const pdfContent = "%PDF-1.4 test document"

type testEnv struct {
	t       *testing.T
	db      *gorm.DB
	router  *gin.Engine
	users   *services.UserService
	clients *services.ClientService
	docs    *storage.LocalStore
	jar     map[string]*http.Cookie
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.OpenDB(t)
	docs, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	users := services.NewUserService(repository.NewUserRepository(db), services.NewBcryptHasher(bcrypt.MinCost))
	clients := services.NewClientService(repository.NewClientRepository(db), docs, false)

	opts := sessions.Options{Path: "/", HttpOnly: true}
	store := cookie.NewStore([]byte("secret"))
	store.Options(opts)

	gatekeeper := middleware.NewGatekeeper(users, middleware.DefaultPolicy(),
		middleware.NewRememberMe("remember-secret", time.Hour), opts)

	router := NewRouter(RouterDeps{
		DB:             db,
		Roles:          repository.NewRoleRepository(db),
		Users:          users,
		Clients:        clients,
		Gatekeeper:     gatekeeper,
		SessionStore:   store,
		MaxUploadBytes: 1 << 20,
	})

	return &testEnv{
		t:       t,
		db:      db,
		router:  router,
		users:   users,
		clients: clients,
		docs:    docs,
		jar:     map[string]*http.Cookie{},
	}
}

// do sends req with the cookies collected so far and records new ones.
func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range e.jar {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			delete(e.jar, c.Name)
			continue
		}
		e.jar[c.Name] = c
	}
	return w
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (e *testEnv) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req)
}

func (e *testEnv) postClient(form url.Values, contentType string) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, values := range form {
		for _, v := range values {
			require.NoError(e.t, mw.WriteField(key, v))
		}
	}
	if contentType != "" {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="file"; filename="passport.pdf"`)
		header.Set("Content-Type", contentType)
		part, err := mw.CreatePart(header)
		require.NoError(e.t, err)
		_, err = part.Write([]byte(pdfContent))
		require.NoError(e.t, err)
	}
	require.NoError(e.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/addclient", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return e.do(req)
}

func (e *testEnv) register(username, email, password string) *httptest.ResponseRecorder {
	return e.postForm("/register", url.Values{
		"username": {username},
		"email":    {email},
		"password": {password},
	})
}

func (e *testEnv) login(email, password string) *httptest.ResponseRecorder {
	return e.postForm("/login", url.Values{"email": {email}, "password": {password}})
}

// signIn registers and logs in a user, returning its stored record.
func (e *testEnv) signIn(email string) *models.User {
	require.Equal(e.t, http.StatusFound, e.register("TestUser", email, "123456789").Code)
	w := e.login(email, "123456789")
	require.Equal(e.t, http.StatusFound, w.Code)
	require.Equal(e.t, constants.PathHome, w.Header().Get("Location"))

	user, err := e.users.FindByEmail(email)
	require.NoError(e.t, err)
	return user
}

func (e *testEnv) seedClient(series, number string, ownerID uint64) *models.Client {
	client, err := e.clients.CreateClient(context.Background(), clientValues(series, number).input(), services.Document{
		ContentType: constants.DocumentContentType,
		Content:     strings.NewReader(pdfContent),
	}, ownerID)
	require.NoError(e.t, err)
	return client
}

type clientFields url.Values

func clientValues(series, number string) clientFields {
	return clientFields{
		"firstName":      {"Ivan"},
		"lastName":       {"Petrov"},
		"sex":            {"male"},
		"age":            {"30"},
		"passportSeries": {series},
		"passportNumber": {number},
		"phone":          {"88005553535"},
	}
}

func (f clientFields) input() services.CreateClientInput {
	v := url.Values(f)
	return services.CreateClientInput{
		FirstName:      v.Get("firstName"),
		LastName:       v.Get("lastName"),
		Sex:            v.Get("sex"),
		Age:            v.Get("age"),
		PassportSeries: v.Get("passportSeries"),
		PassportNumber: v.Get("passportNumber"),
		Phone:          v.Get("phone"),
	}
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}
