package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/pkg/api"
)

// LedgerService implements api.LedgerServiceHandler on top of the engine.
// Handlers only translate messages; every rule lives in the engine.
type LedgerService struct {
	engine *ledger.Engine
	logger *slog.Logger
}

var _ api.LedgerServiceHandler = (*LedgerService)(nil)

// NewLedgerService creates a new LedgerService.
func NewLedgerService(engine *ledger.Engine, logger *slog.Logger) *LedgerService {
	return &LedgerService{engine: engine, logger: logger}
}

// SubmitExpense records a new expense.
func (s *LedgerService) SubmitExpense(ctx context.Context, req *connect.Request[api.SubmitExpenseRequest]) (*connect.Response[api.SubmitExpenseResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticated()
	}

	msg := req.Msg
	s.logger.DebugContext(ctx, "SubmitExpense request received",
		"amount", msg.Amount, "splits_count", len(msg.Splits), "group_id", msg.GroupID)

	exp, err := s.engine.SubmitExpense(ctx, userID, ledger.ExpenseDraft{
		Description: msg.Description,
		Amount:      msg.Amount,
		Category:    msg.Category,
		Date:        msg.Date,
		PayerID:     msg.PayerID,
		SplitType:   models.SplitType(msg.SplitType),
		Splits:      splitsFromAPI(msg.Splits),
		GroupID:     msg.GroupID,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.SubmitExpenseResponse{Expense: expenseToAPI(exp)}), nil
}

// DeleteExpense removes an expense and cascades into its settlements.
func (s *LedgerService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticated()
	}

	if err := s.engine.DeleteExpense(ctx, userID, req.Msg.ExpenseID); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.DeleteExpenseResponse{Success: true}), nil
}

// SubmitSettlement records a payment between two users.
func (s *LedgerService) SubmitSettlement(ctx context.Context, req *connect.Request[api.SubmitSettlementRequest]) (*connect.Response[api.SubmitSettlementResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticated()
	}

	msg := req.Msg
	st, err := s.engine.SubmitSettlement(ctx, userID, ledger.SettlementDraft{
		Amount:            msg.Amount,
		Note:              msg.Note,
		PayerID:           msg.PayerID,
		ReceiverID:        msg.ReceiverID,
		GroupID:           msg.GroupID,
		RelatedExpenseIDs: msg.RelatedExpenseIDs,
	})
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.SubmitSettlementResponse{Settlement: settlementToAPI(st)}), nil
}

// GetBalances returns the caller's one-to-one dashboard.
func (s *LedgerService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticated()
	}

	b, err := s.engine.Balances(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	counterparties := func(list []ledger.CounterpartyBalance) []api.CounterpartyBalance {
		out := make([]api.CounterpartyBalance, len(list))
		for i, c := range list {
			out[i] = api.CounterpartyBalance{User: participantToAPI(c.Participant), Amount: c.Amount}
		}
		return out
	}
	return connect.NewResponse(&api.GetBalancesResponse{
		Owed:    b.Owed,
		Owing:   b.Owing,
		Total:   b.Total,
		OwedBy:  counterparties(b.OwedBy),
		OwingTo: counterparties(b.OwingTo),
	}), nil
}

// GetPairBalance returns the caller's history and balance with one user.
func (s *LedgerService) GetPairBalance(ctx context.Context, req *connect.Request[api.GetPairBalanceRequest]) (*connect.Response[api.GetPairBalanceResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticated()
	}

	p, err := s.engine.Pair(ctx, userID, req.Msg.UserID)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &api.GetPairBalanceResponse{
		Counterparty: participantToAPI(p.Counterparty),
		Expenses:     make([]api.Expense, len(p.Expenses)),
		Settlements:  make([]api.Settlement, len(p.Settlements)),
		Net:          p.Net,
		YouAreOwed:   p.YouAreOwed,
		YouOwe:       p.YouOwe,
	}
	for i := range p.Expenses {
		resp.Expenses[i] = expenseToAPI(&p.Expenses[i])
	}
	for i := range p.Settlements {
		resp.Settlements[i] = settlementToAPI(&p.Settlements[i])
	}
	return connect.NewResponse(resp), nil
}

// GetRecentActivity returns the caller's activity feed.
func (s *LedgerService) GetRecentActivity(ctx context.Context, req *connect.Request[api.GetRecentActivityRequest]) (*connect.Response[api.GetRecentActivityResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticated()
	}

	items, err := s.engine.RecentActivity(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &api.GetRecentActivityResponse{Items: make([]api.ActivityItem, len(items))}
	for i := range items {
		resp.Items[i] = api.ActivityItem{
			Expense:   expenseToAPI(&items[i].Expense),
			PayerName: items[i].PayerName,
			GroupName: items[i].GroupName,
		}
	}
	return connect.NewResponse(resp), nil
}

// CalculateSplit previews the shares for an amount without storing
// anything.
func (s *LedgerService) CalculateSplit(ctx context.Context, req *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error) {
	shares := make([]calculator.Share, len(req.Msg.Shares))
	for i, sh := range req.Msg.Shares {
		shares[i] = calculator.Share{ParticipantID: sh.ParticipantID, Value: sh.Value}
	}

	splits, err := s.engine.PreviewSplit(req.Msg.Amount, models.SplitType(req.Msg.SplitType), shares)
	if err != nil {
		s.logger.DebugContext(ctx, "CalculateSplit rejected", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.CalculateSplitResponse{Splits: splitsToAPI(splits)}), nil
}

// GetSpending returns the caller's share of expenses per month of a year.
func (s *LedgerService) GetSpending(ctx context.Context, req *connect.Request[api.GetSpendingRequest]) (*connect.Response[api.GetSpendingResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticated()
	}

	sp, err := s.engine.Spending(ctx, userID, req.Msg.Year)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &api.GetSpendingResponse{Year: sp.Year, Total: sp.Total, Months: make([]api.MonthTotal, len(sp.Months))}
	for i, m := range sp.Months {
		resp.Months[i] = api.MonthTotal{Start: m.Start, Total: m.Total}
	}
	return connect.NewResponse(resp), nil
}
