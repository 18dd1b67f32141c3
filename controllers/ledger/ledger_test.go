package ledgerController_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"khata/config"
	"khata/database"
	"khata/middleware"
	"khata/models"
	authRoutes "khata/routers/authRoutes"
	ledgerRoutes "khata/routers/ledgerRoutes"
)

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type memberList struct {
	Members []models.Member `json:"members"`
}

type historyData struct {
	Member       models.Member        `json:"member"`
	Transactions []models.Transaction `json:"transactions"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{
		Port:          "3000",
		DBDriver:      "sqlite",
		DBName:        ":memory:",
		SaltRound:     bcrypt.MinCost,
		SessionSecret: "test-secret",
	}

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Member{}, &models.Transaction{}))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	ledgerRoutes.SetupLedgerRoutes(app)
	return app
}

func doForm(t *testing.T, app *fiber.App, path string, form url.Values, session string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if session != "" {
		req.Header.Set("Cookie", middleware.SessionCookie+"="+session)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func doGet(t *testing.T, app *fiber.App, path, session string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	if session != "" {
		req.Header.Set("Cookie", middleware.SessionCookie+"="+session)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeData(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
}

// signupAndLogin creates an account and returns its session cookie value
func signupAndLogin(t *testing.T, app *fiber.App, username string) string {
	t.Helper()

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", "secret-pass")

	resp := doForm(t, app, "/signup", form, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doForm(t, app, "/login", form, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.SessionCookie {
			return cookie.Value
		}
	}
	t.Fatal("login did not set a session cookie")
	return ""
}

func addMember(t *testing.T, app *fiber.App, session, name string) models.Member {
	t.Helper()

	form := url.Values{}
	form.Set("name", name)
	resp := doForm(t, app, "/add_member", form, session)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var member models.Member
	decodeData(t, resp, &member)
	return member
}

func postTransaction(t *testing.T, app *fiber.App, session string, memberID uint, amount string) *http.Response {
	t.Helper()

	form := url.Values{}
	form.Set("member_id", fmt.Sprint(memberID))
	form.Set("amount", amount)
	return doForm(t, app, "/add_transaction", form, session)
}

func listMembers(t *testing.T, app *fiber.App, path, session string) []models.Member {
	t.Helper()

	resp := doGet(t, app, path, session)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list memberList
	decodeData(t, resp, &list)
	return list.Members
}

func TestRequiresSession(t *testing.T) {
	app := newTestApp(t)

	for _, path := range []string{"/", "/add_member", "/add_transaction", "/history/1", "/delete/1", "/filter/all", "/search"} {
		resp := doGet(t, app, path, "")
		assert.Equal(t, http.StatusSeeOther, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}

	// A tampered cookie is treated the same as a missing one
	resp := doGet(t, app, "/", "not-a-real-token")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestAddMemberStartsAtZero(t *testing.T) {
	app := newTestApp(t)
	session := signupAndLogin(t, app, "asha")

	member := addMember(t, app, session, "Asha")
	assert.Equal(t, "Asha", member.Name)
	assert.Equal(t, int64(0), member.Balance)

	members := listMembers(t, app, "/", session)
	require.Len(t, members, 1)
	assert.Equal(t, member.ID, members[0].ID)
}

func TestAddMemberValidation(t *testing.T) {
	app := newTestApp(t)
	session := signupAndLogin(t, app, "asha")

	form := url.Values{}
	form.Set("name", "   ")
	resp := doForm(t, app, "/add_member", form, session)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestTransactionBalanceInvariant(t *testing.T) {
	app := newTestApp(t)
	session := signupAndLogin(t, app, "owner")

	member := addMember(t, app, session, "Asha")

	resp := postTransaction(t, app, session, member.ID, "500")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = postTransaction(t, app, session, member.ID, "-200")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doGet(t, app, fmt.Sprintf("/history/%d", member.ID), session)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var history historyData
	decodeData(t, resp, &history)

	assert.Equal(t, int64(300), history.Member.Balance)
	require.Len(t, history.Transactions, 2)
	assert.Equal(t, int64(500), history.Transactions[0].Amount)
	assert.Equal(t, int64(-200), history.Transactions[1].Amount)

	var sum int64
	for _, txn := range history.Transactions {
		sum += txn.Amount
	}
	assert.Equal(t, history.Member.Balance, sum, "balance must equal the sum of posted amounts")
}

func TestTransactionValidation(t *testing.T) {
	app := newTestApp(t)
	session := signupAndLogin(t, app, "owner")

	member := addMember(t, app, session, "Asha")

	resp := postTransaction(t, app, session, member.ID, "not-a-number")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp = postTransaction(t, app, session, member.ID+100, "50")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Rejected posts must not move the balance
	members := listMembers(t, app, "/", session)
	require.Len(t, members, 1)
	assert.Equal(t, int64(0), members[0].Balance)
}

func TestDeleteMemberCascades(t *testing.T) {
	app := newTestApp(t)
	session := signupAndLogin(t, app, "owner")

	member := addMember(t, app, session, "Asha")
	require.Equal(t, http.StatusCreated, postTransaction(t, app, session, member.ID, "500").StatusCode)
	require.Equal(t, http.StatusCreated, postTransaction(t, app, session, member.ID, "-200").StatusCode)

	resp := doGet(t, app, fmt.Sprintf("/delete/%d", member.ID), session)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doGet(t, app, fmt.Sprintf("/history/%d", member.ID), session)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// No orphaned transactions remain queryable
	var orphans []models.Transaction
	require.NoError(t, database.Database.Db.Where("member_id = ?", member.ID).Find(&orphans).Error)
	assert.Empty(t, orphans)

	resp = doGet(t, app, fmt.Sprintf("/delete/%d", member.ID), session)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFilterPartition(t *testing.T) {
	app := newTestApp(t)
	session := signupAndLogin(t, app, "owner")

	credit := addMember(t, app, session, "Credit")
	debit := addMember(t, app, session, "Debit")
	zero := addMember(t, app, session, "Zero")

	require.Equal(t, http.StatusCreated, postTransaction(t, app, session, credit.ID, "700").StatusCode)
	require.Equal(t, http.StatusCreated, postTransaction(t, app, session, debit.ID, "-300").StatusCode)

	positive := listMembers(t, app, "/filter/positive", session)
	negative := listMembers(t, app, "/filter/negative", session)
	all := listMembers(t, app, "/", session)

	// Zero balance counts as positive
	assert.Len(t, positive, 2)
	assert.Len(t, negative, 1)
	assert.Equal(t, len(all), len(positive)+len(negative), "positive and negative must partition the ledger")
	assert.Equal(t, zero.ID, positive[1].ID)

	// An unrecognized kind lists everything
	unfiltered := listMembers(t, app, "/filter/bogus", session)
	assert.Len(t, unfiltered, len(all))
}

func TestSearchMembers(t *testing.T) {
	app := newTestApp(t)
	session := signupAndLogin(t, app, "owner")

	addMember(t, app, session, "Asha Devi")
	addMember(t, app, session, "Ashok")
	addMember(t, app, session, "Ravi")

	search := func(query string) []models.Member {
		form := url.Values{}
		form.Set("query", query)
		resp := doForm(t, app, "/search", form, session)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var list memberList
		decodeData(t, resp, &list)
		return list.Members
	}

	// Empty query returns nothing, unlike filter's default-to-all
	assert.Empty(t, search(""))

	assert.Len(t, search("ash"), 2)
	assert.Len(t, search("ASHA"), 1)
	assert.Len(t, search("ravi"), 1)
	assert.Empty(t, search("xyz"))
}

func TestCrossUserIsolation(t *testing.T) {
	app := newTestApp(t)

	sessionA := signupAndLogin(t, app, "alice")
	sessionB := signupAndLogin(t, app, "bala")

	member := addMember(t, app, sessionA, "Asha")

	assert.Empty(t, listMembers(t, app, "/", sessionB))

	resp := doGet(t, app, fmt.Sprintf("/history/%d", member.ID), sessionB)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = postTransaction(t, app, sessionB, member.ID, "100")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doGet(t, app, fmt.Sprintf("/delete/%d", member.ID), sessionB)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// A's ledger is untouched by B's attempts
	members := listMembers(t, app, "/", sessionA)
	require.Len(t, members, 1)
	assert.Equal(t, int64(0), members[0].Balance)
}

func TestAddTransactionFormListsMembers(t *testing.T) {
	app := newTestApp(t)
	session := signupAndLogin(t, app, "owner")

	addMember(t, app, session, "Asha")
	addMember(t, app, session, "Ravi")

	resp := doGet(t, app, "/add_transaction", session)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list memberList
	decodeData(t, resp, &list)
	assert.Len(t, list.Members, 2)
}
