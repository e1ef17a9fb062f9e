package handlers

import (
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/gazer/client-registry/internal/constants"
	"github.com/gazer/client-registry/internal/dto"
	apierrors "github.com/gazer/client-registry/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginAddSearchDelete(t *testing.T) {
	env := setupTestEnv(t)

	w := env.register("TestUser", "test@test.com", "123456789")
	require.Equal(t, http.StatusFound, w.Code)

	w = env.register("TestUser", "test@test.com", "123456789")
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, decode[dto.RegisterView](t, w).Errors.Has(apierrors.MarkerEmailTaken))

	w = env.login("test@test.com", "123456789")
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, constants.PathHome, w.Header().Get("Location"))
	require.Contains(t, env.jar, constants.SessionCookieName)

	w = env.postClient(url.Values(clientValues("1111", "222222")), constants.DocumentContentType)
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, constants.PathClients, w.Header().Get("Location"))

	w = env.postClient(url.Values(clientValues("1111", "222222")), constants.DocumentContentType)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, decode[dto.AddClientView](t, w).Errors.Has(apierrors.MarkerBadPassport))

	search := url.Values{"passportSeries": {"1111"}, "passportNumber": {"222222"}}
	found := decode[dto.ClientsPageView](t, env.postForm("/findbypass", search))
	require.Len(t, found.Clients, 1)

	w = env.get("/delete?id=" + strconv.FormatUint(found.Clients[0].ClientID, 10))
	require.Equal(t, http.StatusFound, w.Code)

	found = decode[dto.ClientsPageView](t, env.postForm("/findbypass", search))
	assert.Empty(t, found.Clients)

	listing := decode[dto.ClientsPageView](t, env.get("/clients"))
	assert.Empty(t, listing.Clients)
}
