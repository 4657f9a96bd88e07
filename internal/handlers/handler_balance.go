package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portssvc "github.com/SscSPs/ledger_engine/internal/core/ports/services"
	"github.com/SscSPs/ledger_engine/internal/dto"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/gin-gonic/gin"
)

// balanceHandler serves the read model: account balances and reports.
type balanceHandler struct {
	balanceService  portssvc.BalanceSvc
	currencyService portssvc.CurrencyReaderSvc
}

func newBalanceHandler(bs portssvc.BalanceSvc, cs portssvc.CurrencyReaderSvc) *balanceHandler {
	return &balanceHandler{
		balanceService:  bs,
		currencyService: cs,
	}
}

// RegisterBalanceRoutes registers the balance and reporting routes.
func RegisterBalanceRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceSvc, currencyService portssvc.CurrencyReaderSvc) {
	h := newBalanceHandler(balanceService, currencyService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("/:accountID/balance", h.getAccountBalance)
		accounts.GET("/:accountID/period-balance", h.getPeriodBalance)
	}
	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
	}
}

// getAccountBalance godoc
// @Summary Get an account balance
// @Description Folds every leg committed up to asOf into a signed balance. Positive means the account's normal side.
// @Tags balances
// @Produce json
// @Param accountID path string true "Account ID"
// @Param asOf query string false "RFC 3339 timestamp or YYYY-MM-DD (end of day); defaults to now"
// @Success 200 {object} dto.AccountBalanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{accountID}/balance [get]
func (h *balanceHandler) getAccountBalance(c *gin.Context) {
	accountID := c.Param("accountID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", accountID))

	asOf, err := parseTimeQuery(c, "asOf")
	if err != nil {
		badRequest(c, logger, "Invalid asOf", err)
		return
	}

	balance, err := h.balanceService.AccountBalance(c.Request.Context(), accountID, asOf)
	if err != nil {
		respondError(c, logger, err, "Failed to calculate account balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountBalanceResponse(balance, func(m domain.Money) string {
		formatted, err := h.currencyService.FormatAmount(c.Request.Context(), m)
		if err != nil {
			logger.Warn("Failed to format balance", slog.String("error", err.Error()))
			return m.String()
		}
		return formatted
	}))
}

// getPeriodBalance godoc
// @Summary Get an account's activity over a period
// @Description Opening balance at from, debits and credits in (from, to], and the closing balance at to.
// @Tags balances
// @Produce json
// @Param accountID path string true "Account ID"
// @Param from query string true "Period start (exclusive)"
// @Param to query string true "Period end (inclusive)"
// @Param currency query string false "Expected account currency"
// @Success 200 {object} dto.PeriodBalanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{accountID}/period-balance [get]
func (h *balanceHandler) getPeriodBalance(c *gin.Context) {
	accountID := c.Param("accountID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("account_id", accountID))

	from, err := parseTimeQuery(c, "from")
	if err != nil {
		badRequest(c, logger, "Invalid from", err)
		return
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		badRequest(c, logger, "Invalid to", err)
		return
	}
	if from.IsZero() || to.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from and to are required"})
		return
	}

	period, err := h.balanceService.PeriodBalance(c.Request.Context(), accountID, from, to)
	if err != nil {
		respondError(c, logger, err, "Failed to calculate period balance")
		return
	}
	if currency := strings.ToUpper(c.Query("currency")); currency != "" && currency != period.Closing.Currency {
		err := fmt.Errorf("%w: account %s is denominated in %s, not %s", apperrors.ErrValidation, accountID, period.Closing.Currency, currency)
		respondError(c, logger, err, "Currency mismatch")
		return
	}
	c.JSON(http.StatusOK, dto.ToPeriodBalanceResponse(period))
}

// getTrialBalance godoc
// @Summary Generate a trial balance
// @Description Lists every account's net balance in a debit or credit column, with per-currency totals. The whole ledger must reconcile for the report to be produced.
// @Tags reports
// @Produce json
// @Param asOf query string false "RFC 3339 timestamp or YYYY-MM-DD (end of day); defaults to now"
// @Param accountIDs query string false "Comma separated account IDs to include"
// @Param currency query string false "Only rows in this currency"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 500 {object} map[string]string "Ledger failed to reconcile"
// @Router /reports/trial-balance [get]
func (h *balanceHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf, err := parseTimeQuery(c, "asOf")
	if err != nil {
		badRequest(c, logger, "Invalid asOf", err)
		return
	}
	params := portssvc.TrialBalanceParams{
		AsOf:         asOf,
		AccountIDs:   splitList(c.QueryArray("accountIDs")),
		CurrencyCode: strings.ToUpper(c.Query("currency")),
	}
	logger = logger.With(slog.Time("as_of", asOf), slog.Int("account_filter", len(params.AccountIDs)))
	logger.Info("Received request to generate trial balance")

	report, err := h.balanceService.TrialBalance(c.Request.Context(), params)
	if err != nil {
		respondError(c, logger, err, "Failed to generate trial balance")
		return
	}
	logger.Info("Trial balance generated", slog.Int("rows", len(report.Rows)))
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report))
}
