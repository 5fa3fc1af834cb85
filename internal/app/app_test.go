package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"visaflow/internal/config"
	"visaflow/internal/repositories"
	"visaflow/internal/services"
)

type APISuite struct {
	suite.Suite
	router  *gin.Engine
	rootDir string
	admin   string
	sales   string
}

func TestAPISuite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	suite.Run(t, new(APISuite))
}

func (s *APISuite) SetupTest() {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour
	s.rootDir = s.T().TempDir()
	cfg.Files.RootDir = s.rootDir

	store := repositories.NewMemoryStore()
	passwords := services.NewAuthService(bcrypt.MinCost)
	s.Require().NoError(repositories.Seed(context.Background(), store, passwords.HashPassword))

	router, err := NewRouter(cfg, store, Deps{Registry: prometheus.NewRegistry(), BcryptCost: bcrypt.MinCost})
	s.Require().NoError(err)
	s.router = router

	s.admin = s.login("admin@visaflow.com", "admin")
	s.sales = s.login("sales1@visaflow.com", "sales")
}

func (s *APISuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *APISuite) login(email, password string) string {
	w := s.do(http.MethodPost, "/login", "", map[string]string{"email": email, "password": password})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	s.Require().NotEmpty(resp.AccessToken)
	return resp.AccessToken
}

func (s *APISuite) decode(w *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (s *APISuite) TestPublicAndUnauthenticated() {
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/healthz", "", nil).Code)
	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/dashboard", "", nil).Code)
	s.Equal(http.StatusUnauthorized, s.do(http.MethodPost, "/login", "", map[string]string{"email": "admin@visaflow.com", "password": "nope"}).Code)
	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/login", "", map[string]string{"email": "admin@visaflow.com"}).Code)
}

func (s *APISuite) TestMeReturnsCapabilities() {
	w := s.do(http.MethodGet, "/me", s.sales, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var resp struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
		Capabilities map[string]bool `json:"capabilities"`
	}
	s.decode(w, &resp)
	s.Equal("sales1@visaflow.com", resp.User.Email)
	s.True(resp.Capabilities["canSeeLeads"])
	s.False(resp.Capabilities["canSeeFinancials"])
	s.NotContains(w.Body.String(), "password")
}

func (s *APISuite) TestClientViewsDependOnRole() {
	var admin []map[string]any
	w := s.do(http.MethodGet, "/clients", s.admin, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &admin)
	s.Require().Len(admin, 3)
	s.Equal(float64(92400), admin[0]["net_profit"])
	s.Equal(float64(257600), admin[0]["total_expenses"])
	s.Equal(float64(150000), admin[0]["balance_due"])
	s.Equal("Alom 101", admin[0]["agent_name"])
	s.Contains(admin[0], "expenses")

	var sales []map[string]any
	w = s.do(http.MethodGet, "/clients", s.sales, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &sales)
	s.Require().Len(sales, 3)
	for _, c := range sales {
		s.NotContains(c, "expenses")
		s.NotContains(c, "total_expenses")
		s.NotContains(c, "net_profit")
		s.Contains(c, "total_paid")
	}
}

func (s *APISuite) TestCapabilityGuards() {
	expense := map[string]any{"date": "2025-10-20", "amount": 1000, "type": "Courier"}
	s.Equal(http.StatusForbidden, s.do(http.MethodPost, "/clients/1/expenses", s.sales, expense).Code)
	s.Equal(http.StatusForbidden, s.do(http.MethodGet, "/transactions", s.sales, nil).Code)
	s.Equal(http.StatusForbidden, s.do(http.MethodGet, "/team", s.sales, nil).Code)
	s.Equal(http.StatusForbidden, s.do(http.MethodGet, "/reports/team-performance", s.sales, nil).Code)
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/agents", s.sales, nil).Code)

	s.Equal(http.StatusCreated, s.do(http.MethodPost, "/clients/1/expenses", s.admin, expense).Code)
}

func (s *APISuite) TestTransactionsFeed() {
	var all []map[string]any
	w := s.do(http.MethodGet, "/transactions", s.admin, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &all)
	s.Len(all, 9)
	s.Equal("expense", all[0]["type"])
	s.True(strings.HasPrefix(all[0]["date"].(string), "2025-10-17"))

	var payments []map[string]any
	w = s.do(http.MethodGet, "/transactions?type=payment", s.admin, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &payments)
	s.Len(payments, 4)

	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/transactions?type=refund", s.admin, nil).Code)
}

func (s *APISuite) TestStatusAndLedgerErrors() {
	s.Equal(http.StatusBadRequest, s.do(http.MethodPut, "/clients/1/statuses/bogus", s.sales, map[string]string{"value": "Done"}).Code)
	s.Equal(http.StatusBadRequest, s.do(http.MethodPut, "/clients/1/statuses/visa", s.sales, map[string]string{"value": "Maybe"}).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodPut, "/clients/99/statuses/visa", s.sales, map[string]string{"value": "Done"}).Code)
	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/clients/abc", s.sales, nil).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/clients/99", s.sales, nil).Code)

	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/clients/1/payments", s.sales, map[string]any{"amount": -5}).Code)
	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/clients/1/payments", s.sales, map[string]any{"amount": 5, "date": "20/10/2025"}).Code)

	w := s.do(http.MethodPost, "/clients/1/payments", s.sales, map[string]any{"amount": 100, "method": "Cash"})
	s.Require().Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "date")
	w = s.do(http.MethodPost, "/clients/1/expenses", s.admin, map[string]any{"amount": 100, "type": "Courier"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPut, "/clients/1/statuses/visa", s.sales, map[string]string{"value": "Done"})
	s.Require().Equal(http.StatusOK, w.Code)
	var view map[string]any
	s.decode(w, &view)
	s.Equal("Done", view["statuses"].(map[string]any)["visa"])

	w = s.do(http.MethodPost, "/clients/1/payments", s.sales, map[string]any{"amount": 150000, "method": "Bank", "date": "2025-10-20"})
	s.Require().Equal(http.StatusCreated, w.Code)
	s.decode(w, &view)
	s.Equal(float64(0), view["balance_due"])
}

func (s *APISuite) TestLeadLifecycle() {
	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/leads", s.sales, map[string]string{"phone": "1"}).Code)

	w := s.do(http.MethodPost, "/leads", s.sales, map[string]any{"name": "Walk-in G", "phone": "01700000007", "source": "Walk-in"})
	s.Require().Equal(http.StatusCreated, w.Code)
	var lead map[string]any
	s.decode(w, &lead)
	s.Equal("New", lead["status"])
	id := int(lead["id"].(float64))

	path := "/leads/" + strconv.Itoa(id)
	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, path+"/status", s.sales, map[string]string{"status": "Won"}).Code)
	s.Equal(http.StatusOK, s.do(http.MethodPost, path+"/follow-ups", s.sales, map[string]string{"note": "   "}).Code)
	s.Equal(http.StatusOK, s.do(http.MethodPost, path+"/status", s.sales, map[string]string{"status": "Qualified"}).Code)

	client := map[string]any{"name": "Walk-in G", "passport_no": "G1234567", "total_fee": 400000, "country": "Qatar"}
	w = s.do(http.MethodPost, path+"/convert", s.sales, client)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	s.Equal(http.StatusConflict, s.do(http.MethodPost, path+"/convert", s.sales, client).Code)

	// seeded lead 1 is New
	s.Equal(http.StatusConflict, s.do(http.MethodPost, "/leads/1/convert", s.sales, client).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodPost, "/leads/999/status", s.sales, map[string]string{"status": "Lost"}).Code)

	var board []map[string]any
	w = s.do(http.MethodGet, "/leads/board", s.sales, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &board)
	s.Len(board, 5)
}

func (s *APISuite) TestDashboardAndReports() {
	var admin map[string]any
	w := s.do(http.MethodGet, "/dashboard", s.admin, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &admin)
	s.Contains(admin["totals"], "net_profit")

	w = s.do(http.MethodGet, "/dashboard", s.sales, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.NotContains(w.Body.String(), "net_profit")
	s.NotContains(w.Body.String(), "total_expenses")

	var top []map[string]any
	w = s.do(http.MethodGet, "/reports/top-agents?limit=2", s.sales, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &top)
	s.Require().Len(top, 2)
	s.Equal(float64(2), top[0]["client_count"])

	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/reports/top-agents?limit=-1", s.sales, nil).Code)
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/reports/team-performance", s.admin, nil).Code)
	s.Equal(http.StatusOK, s.do(http.MethodGet, "/reports/outstanding", s.sales, nil).Code)
}

func (s *APISuite) TestTeamCreate() {
	member := map[string]string{"name": "Sales Executive 3", "email": "sales3@visaflow.com", "role": "Sales", "password": "secret123"}
	s.Equal(http.StatusCreated, s.do(http.MethodPost, "/team", s.admin, member).Code)
	s.Equal(http.StatusConflict, s.do(http.MethodPost, "/team", s.admin, member).Code)
	s.NotEmpty(s.login("sales3@visaflow.com", "secret123"))

	bad := map[string]string{"name": "Sales Executive 4", "email": "not-an-email", "role": "Sales", "password": "secret123"}
	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/team", s.admin, bad).Code)
	delete(bad, "name")
	bad["email"] = "sales4@visaflow.com"
	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/team", s.admin, bad).Code)
}

func (s *APISuite) TestStatementDownload() {
	w := s.do(http.MethodGet, "/clients/1/statement", s.sales, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Header().Get("Content-Disposition"), "statement_client_1.pdf")
	s.True(bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}

func (s *APISuite) TestStatementIgnoresRequestIDForFilename() {
	req := httptest.NewRequest(http.MethodGet, "/clients/1/statement", nil)
	req.Header.Set("Authorization", "Bearer "+s.sales)
	req.Header.Set("X-Request-ID", "../x/statement_client_2.pdf")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Header().Get("Content-Disposition"), "statement_client_1.pdf")
	s.True(bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	var left []string
	s.Require().NoError(filepath.WalkDir(filepath.Dir(s.rootDir), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			left = append(left, path)
		}
		return nil
	}))
	s.Empty(left)
}

func (s *APISuite) TestMetricsEndpoint() {
	fee := 100
	s.Require().Equal(http.StatusCreated, s.do(http.MethodPost, "/clients", s.sales, map[string]any{"name": "X", "passport_no": "X1", "total_fee": fee}).Code)
	w := s.do(http.MethodGet, "/metrics", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "visaflow_clients_created_total 1")
}
