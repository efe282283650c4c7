package e2e

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// E2ETestSuite drives the running server through playwright's API client
type E2ETestSuite struct {
	suite.Suite
	pw  *playwright.Playwright
	api playwright.APIRequestContext
}

type session struct {
	Token  string `json:"token"`
	UserID int64  `json:"userID"`
	Name   string `json:"name"`
}

type entry struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"userID"`
	Type        string  `json:"type"`
	Value       float64 `json:"value"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
}

// SetupSuite runs once before all tests
func (suite *E2ETestSuite) SetupSuite() {
	pw, err := playwright.Run(&playwright.RunOptions{SkipInstallBrowsers: true})
	require.NoError(suite.T(), err, "could not launch playwright")
	suite.pw = pw

	api, err := pw.Request.NewContext(playwright.APIRequestNewContextOptions{
		BaseURL: playwright.String(appURL),
	})
	require.NoError(suite.T(), err, "could not create request context")
	suite.api = api
}

// TearDownSuite runs once after all tests
func (suite *E2ETestSuite) TearDownSuite() {
	if suite.api != nil {
		suite.api.Dispose()
	}
	if suite.pw != nil {
		suite.pw.Stop()
	}
}

func bearer(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// signUpAndIn registers a fresh account and returns its session.
func (suite *E2ETestSuite) signUpAndIn(name string) session {
	email := fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8])

	resp, err := suite.api.Post("/sign-up", playwright.APIRequestContextPostOptions{
		Data: map[string]any{"name": name, "email": email, "password": "abc123"},
	})
	require.NoError(suite.T(), err, "sign-up request failed")
	require.Equal(suite.T(), http.StatusOK, resp.Status(), "sign-up rejected")

	resp, err = suite.api.Post("/sign-in", playwright.APIRequestContextPostOptions{
		Data: map[string]any{"email": email, "password": "abc123"},
	})
	require.NoError(suite.T(), err, "sign-in request failed")
	require.Equal(suite.T(), http.StatusOK, resp.Status(), "sign-in rejected")

	var s session
	require.NoError(suite.T(), resp.JSON(&s), "sign-in body is not JSON")
	require.NotEmpty(suite.T(), s.Token)
	return s
}

func (suite *E2ETestSuite) list(token string) []entry {
	resp, err := suite.api.Get("/wallet", playwright.APIRequestContextGetOptions{Headers: bearer(token)})
	require.NoError(suite.T(), err, "list request failed")
	require.Equal(suite.T(), http.StatusOK, resp.Status())

	var entries []entry
	require.NoError(suite.T(), resp.JSON(&entries))
	return entries
}

func (suite *E2ETestSuite) TestCompleteUserFlow() {
	s := suite.signUpAndIn("Ana")
	assert.Equal(suite.T(), "Ana", s.Name)

	// Create
	resp, err := suite.api.Post("/wallet", playwright.APIRequestContextPostOptions{
		Headers: bearer(s.Token),
		Data:    map[string]any{"type": "input", "value": 50, "description": "salary"},
	})
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), http.StatusCreated, resp.Status())

	var created entry
	require.NoError(suite.T(), resp.JSON(&created))

	// List
	entries := suite.list(s.Token)
	require.Len(suite.T(), entries, 1)
	assert.Equal(suite.T(), "input", entries[0].Type)
	assert.Equal(suite.T(), float64(50), entries[0].Value)
	assert.Equal(suite.T(), "salary", entries[0].Description)
	assert.Equal(suite.T(), s.UserID, entries[0].UserID)

	// Update
	path := fmt.Sprintf("/wallet/%d", created.ID)
	resp, err = suite.api.Put(path, playwright.APIRequestContextPutOptions{
		Headers: bearer(s.Token),
		Data:    map[string]any{"value": 75.5, "description": "salary + bonus"},
	})
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), http.StatusOK, resp.Status())

	resp, err = suite.api.Get(fmt.Sprintf("/oneWallet/%d", created.ID), playwright.APIRequestContextGetOptions{Headers: bearer(s.Token)})
	require.NoError(suite.T(), err)
	var updated entry
	require.NoError(suite.T(), resp.JSON(&updated))
	assert.Equal(suite.T(), 75.5, updated.Value)
	assert.Equal(suite.T(), "input", updated.Type)

	// Delete twice
	for range 2 {
		resp, err = suite.api.Delete(path, playwright.APIRequestContextDeleteOptions{Headers: bearer(s.Token)})
		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), http.StatusOK, resp.Status())
	}
	assert.Empty(suite.T(), suite.list(s.Token))

	// Logout
	resp, err = suite.api.Delete("/logout", playwright.APIRequestContextDeleteOptions{Headers: bearer(s.Token)})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusOK, resp.Status())

	resp, err = suite.api.Get("/wallet", playwright.APIRequestContextGetOptions{Headers: bearer(s.Token)})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusForbidden, resp.Status())
}

func (suite *E2ETestSuite) TestEntriesAreScopedToOwner() {
	ana := suite.signUpAndIn("Ana")
	bruno := suite.signUpAndIn("Bruno")

	resp, err := suite.api.Post("/wallet", playwright.APIRequestContextPostOptions{
		Headers: bearer(ana.Token),
		Data:    map[string]any{"type": "expense", "value": "9.99", "description": "coffee"},
	})
	require.NoError(suite.T(), err)
	require.Equal(suite.T(), http.StatusCreated, resp.Status())

	assert.Len(suite.T(), suite.list(ana.Token), 1)
	assert.Empty(suite.T(), suite.list(bruno.Token))
}

func (suite *E2ETestSuite) TestErrorStatuses() {
	resp, err := suite.api.Post("/sign-in", playwright.APIRequestContextPostOptions{
		Data: map[string]any{"email": "nobody@example.com", "password": "abc123"},
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusNotFound, resp.Status(), "unknown email")

	resp, err = suite.api.Get("/wallet")
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusBadRequest, resp.Status(), "missing token")

	resp, err = suite.api.Get("/wallet", playwright.APIRequestContextGetOptions{Headers: bearer("garbage")})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusUnprocessableEntity, resp.Status(), "malformed token")

	resp, err = suite.api.Get("/wallet", playwright.APIRequestContextGetOptions{Headers: bearer(uuid.NewString())})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusForbidden, resp.Status(), "unknown token")

	resp, err = suite.api.Post("/sign-up", playwright.APIRequestContextPostOptions{
		Data: map[string]any{"name": "", "email": "bad", "password": "x"},
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), http.StatusUnprocessableEntity, resp.Status(), "invalid sign-up")

	var messages []string
	require.NoError(suite.T(), resp.JSON(&messages))
	assert.Len(suite.T(), messages, 3)
}

func TestE2ESuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping end-to-end tests in short mode")
	}
	suite.Run(t, new(E2ETestSuite))
}
