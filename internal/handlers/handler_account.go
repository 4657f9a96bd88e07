package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests for the chart of accounts.
type accountHandler struct {
	chartService portssvc.ChartSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(cs portssvc.ChartSvcFacade) *accountHandler {
	return &accountHandler{
		chartService: cs,
	}
}

// RegisterAccountRoutes registers chart routes. Mutating routes also run
// the given middleware.
func RegisterAccountRoutes(rg *gin.RouterGroup, chartService portssvc.ChartSvcFacade, mutating ...gin.HandlerFunc) {
	h := newAccountHandler(chartService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
		accounts.GET("/:accountID/children", h.listChildren)
		accounts.GET("/:accountID/events", h.listEvents)
		accounts.GET("/:accountID/eligibility", h.getEligibility)
	}
	writes := accounts.Group("", mutating...)
	{
		writes.POST("", h.registerAccount)
		writes.PATCH("/:accountID/type", h.reclassify)
		writes.PATCH("/:accountID/parent", h.reparent)
		writes.PATCH("/:accountID/role", h.setRole)
		writes.POST("/:accountID/deactivate", h.deactivate)
		writes.POST("/:accountID/reactivate", h.reactivate)
	}
}

// registerAccount godoc
// @Summary Register an account
// @Description Adds an account to the chart. The ID is immutable once registered.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   account body dto.RegisterAccountRequest true "Account details"
// @Success 201 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Account ID already registered"
// @Router /accounts [post]
func (h *accountHandler) registerAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RegisterAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, logger, "Invalid request format", err)
		return
	}

	actor := middleware.GetActorFromContext(c)
	logger = logger.With(slog.String("actor", actor), slog.String("account_id", req.AccountID))
	logger.Info("Received request to register account")

	account, err := h.chartService.RegisterAccount(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, logger, err, "Failed to register account")
		return
	}

	logger.Info("Account registered successfully")
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

// getAccount godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("accountID")))

	account, err := h.chartService.Resolve(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts godoc
// @Summary List the chart of accounts
// @Tags accounts
// @Produce  json
// @Success 200 {object} dto.ListAccountsResponse
// @Router /accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accounts, err := h.chartService.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, logger, err, "Failed to list accounts")
		return
	}
	logger.Info("Accounts listed successfully", slog.Int("count", len(accounts)))
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

// listChildren godoc
// @Summary List the direct children of an account
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.ListAccountsResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{accountID}/children [get]
func (h *accountHandler) listChildren(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("accountID")))

	children, err := h.chartService.ListChildren(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondError(c, logger, err, "Failed to list child accounts")
		return
	}
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(children)})
}

// listEvents godoc
// @Summary List the structural edits of an account
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.ListChartEventsResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{accountID}/events [get]
func (h *accountHandler) listEvents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("accountID")))

	events, err := h.chartService.ListChartEvents(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondError(c, logger, err, "Failed to list chart events")
		return
	}
	if events == nil {
		events = []domain.ChartEvent{}
	}
	c.JSON(http.StatusOK, dto.ListChartEventsResponse{Events: events})
}

// getEligibility godoc
// @Summary Check whether an account may receive legs
// @Tags accounts
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Success 200 {object} dto.EligibilityResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{accountID}/eligibility [get]
func (h *accountHandler) getEligibility(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", c.Param("accountID")))

	eligibility, err := h.chartService.IsPostingEligible(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondError(c, logger, err, "Failed to evaluate posting eligibility")
		return
	}
	c.JSON(http.StatusOK, dto.ToEligibilityResponse(eligibility))
}

// reclassify godoc
// @Summary Change the type of an account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   edit body dto.ReclassifyAccountRequest true "New type and reason"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "Concurrent edit"
// @Router /accounts/{accountID}/type [patch]
func (h *accountHandler) reclassify(c *gin.Context) {
	var req dto.ReclassifyAccountRequest
	h.edit(c, &req, "Failed to reclassify account", func(actor string) (*domain.Account, error) {
		return h.chartService.Reclassify(c.Request.Context(), c.Param("accountID"), req, actor)
	})
}

// reparent godoc
// @Summary Move an account in the hierarchy
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   edit body dto.ReparentAccountRequest true "New parent and reason"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string "Invalid input or cycle"
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{accountID}/parent [patch]
func (h *accountHandler) reparent(c *gin.Context) {
	var req dto.ReparentAccountRequest
	h.edit(c, &req, "Failed to reparent account", func(actor string) (*domain.Account, error) {
		return h.chartService.Reparent(c.Request.Context(), c.Param("accountID"), req, actor)
	})
}

// setRole godoc
// @Summary Switch an account between POSTING and SUMMARY
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   edit body dto.SetAccountRoleRequest true "New role and reason"
// @Success 200 {object} dto.AccountResponse
// @Router /accounts/{accountID}/role [patch]
func (h *accountHandler) setRole(c *gin.Context) {
	var req dto.SetAccountRoleRequest
	h.edit(c, &req, "Failed to change account role", func(actor string) (*domain.Account, error) {
		return h.chartService.SetRole(c.Request.Context(), c.Param("accountID"), req, actor)
	})
}

// deactivate godoc
// @Summary Deactivate an account
// @Description A deactivated account keeps its history but receives no new legs.
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   edit body dto.ChartEditRequest true "Reason"
// @Success 200 {object} dto.AccountResponse
// @Router /accounts/{accountID}/deactivate [post]
func (h *accountHandler) deactivate(c *gin.Context) {
	var req dto.ChartEditRequest
	h.edit(c, &req, "Failed to deactivate account", func(actor string) (*domain.Account, error) {
		return h.chartService.Deactivate(c.Request.Context(), c.Param("accountID"), req, actor)
	})
}

// reactivate godoc
// @Summary Reactivate an account
// @Tags accounts
// @Accept  json
// @Produce  json
// @Param   accountID path string true "Account ID"
// @Param   edit body dto.ChartEditRequest true "Reason"
// @Success 200 {object} dto.AccountResponse
// @Router /accounts/{accountID}/reactivate [post]
func (h *accountHandler) reactivate(c *gin.Context) {
	var req dto.ChartEditRequest
	h.edit(c, &req, "Failed to reactivate account", func(actor string) (*domain.Account, error) {
		return h.chartService.Reactivate(c.Request.Context(), c.Param("accountID"), req, actor)
	})
}

// edit binds req, then runs apply with the caller's actor. req must be a
// pointer captured by apply.
func (h *accountHandler) edit(c *gin.Context, req any, failMsg string, apply func(actor string) (*domain.Account, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, logger, "Invalid request format", err)
		return
	}

	actor := middleware.GetActorFromContext(c)
	logger = logger.With(slog.String("actor", actor), slog.String("account_id", c.Param("accountID")))

	account, err := apply(actor)
	if err != nil {
		respondError(c, logger, err, failMsg)
		return
	}
	logger.Info("Chart edit applied", slog.Int64("version", account.Version))
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}
