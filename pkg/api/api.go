// Package api defines the splitledger RPC surface: message types, procedure
// names, Connect handler constructors and a typed client. Messages are plain
// Go structs carried by Codec.
package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	LedgerServiceName = "splitledger.v1.LedgerService"
	GroupServiceName  = "splitledger.v1.GroupService"
	AuthServiceName   = "splitledger.v1.AuthService"
)

const (
	LedgerSubmitExpenseProcedure     = "/" + LedgerServiceName + "/SubmitExpense"
	LedgerDeleteExpenseProcedure     = "/" + LedgerServiceName + "/DeleteExpense"
	LedgerSubmitSettlementProcedure  = "/" + LedgerServiceName + "/SubmitSettlement"
	LedgerGetBalancesProcedure       = "/" + LedgerServiceName + "/GetBalances"
	LedgerGetPairBalanceProcedure    = "/" + LedgerServiceName + "/GetPairBalance"
	LedgerGetRecentActivityProcedure = "/" + LedgerServiceName + "/GetRecentActivity"
	LedgerCalculateSplitProcedure    = "/" + LedgerServiceName + "/CalculateSplit"
	LedgerGetSpendingProcedure       = "/" + LedgerServiceName + "/GetSpending"

	GroupCreateGroupProcedure      = "/" + GroupServiceName + "/CreateGroup"
	GroupGetGroupProcedure         = "/" + GroupServiceName + "/GetGroup"
	GroupListGroupsProcedure       = "/" + GroupServiceName + "/ListGroups"
	GroupGetGroupBalancesProcedure = "/" + GroupServiceName + "/GetGroupBalances"

	AuthRegisterProcedure       = "/" + AuthServiceName + "/Register"
	AuthLoginProcedure          = "/" + AuthServiceName + "/Login"
	AuthGetCurrentUserProcedure = "/" + AuthServiceName + "/GetCurrentUser"
)

// PublicProcedures can be called without a session.
var PublicProcedures = map[string]bool{
	AuthRegisterProcedure:         true,
	AuthLoginProcedure:            true,
	LedgerCalculateSplitProcedure: true,
}

// LedgerServiceHandler is implemented by the ledger service.
type LedgerServiceHandler interface {
	SubmitExpense(context.Context, *connect.Request[SubmitExpenseRequest]) (*connect.Response[SubmitExpenseResponse], error)
	DeleteExpense(context.Context, *connect.Request[DeleteExpenseRequest]) (*connect.Response[DeleteExpenseResponse], error)
	SubmitSettlement(context.Context, *connect.Request[SubmitSettlementRequest]) (*connect.Response[SubmitSettlementResponse], error)
	GetBalances(context.Context, *connect.Request[GetBalancesRequest]) (*connect.Response[GetBalancesResponse], error)
	GetPairBalance(context.Context, *connect.Request[GetPairBalanceRequest]) (*connect.Response[GetPairBalanceResponse], error)
	GetRecentActivity(context.Context, *connect.Request[GetRecentActivityRequest]) (*connect.Response[GetRecentActivityResponse], error)
	CalculateSplit(context.Context, *connect.Request[CalculateSplitRequest]) (*connect.Response[CalculateSplitResponse], error)
	GetSpending(context.Context, *connect.Request[GetSpendingRequest]) (*connect.Response[GetSpendingResponse], error)
}

// GroupServiceHandler is implemented by the group service.
type GroupServiceHandler interface {
	CreateGroup(context.Context, *connect.Request[CreateGroupRequest]) (*connect.Response[CreateGroupResponse], error)
	GetGroup(context.Context, *connect.Request[GetGroupRequest]) (*connect.Response[GetGroupResponse], error)
	ListGroups(context.Context, *connect.Request[ListGroupsRequest]) (*connect.Response[ListGroupsResponse], error)
	GetGroupBalances(context.Context, *connect.Request[GetGroupBalancesRequest]) (*connect.Response[GetGroupBalancesResponse], error)
}

// AuthServiceHandler is implemented by the auth service.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[RegisterRequest]) (*connect.Response[RegisterResponse], error)
	Login(context.Context, *connect.Request[LoginRequest]) (*connect.Response[LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[GetCurrentUserRequest]) (*connect.Response[GetCurrentUserResponse], error)
}

// routes collects unary handlers for one service under its path prefix.
type routes struct {
	mux  *http.ServeMux
	opts []connect.HandlerOption
}

func newRoutes(opts []connect.HandlerOption) *routes {
	return &routes{
		mux:  http.NewServeMux(),
		opts: append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...),
	}
}

func handle[Req, Res any](r *routes, procedure string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error)) {
	r.mux.Handle(procedure, connect.NewUnaryHandler(procedure, fn, r.opts...))
}

// NewLedgerServiceHandler builds an HTTP handler for svc. It returns the
// path to mount it on.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	r := newRoutes(opts)
	handle(r, LedgerSubmitExpenseProcedure, svc.SubmitExpense)
	handle(r, LedgerDeleteExpenseProcedure, svc.DeleteExpense)
	handle(r, LedgerSubmitSettlementProcedure, svc.SubmitSettlement)
	handle(r, LedgerGetBalancesProcedure, svc.GetBalances)
	handle(r, LedgerGetPairBalanceProcedure, svc.GetPairBalance)
	handle(r, LedgerGetRecentActivityProcedure, svc.GetRecentActivity)
	handle(r, LedgerCalculateSplitProcedure, svc.CalculateSplit)
	handle(r, LedgerGetSpendingProcedure, svc.GetSpending)
	return "/" + LedgerServiceName + "/", r.mux
}

// NewGroupServiceHandler builds an HTTP handler for svc. It returns the
// path to mount it on.
func NewGroupServiceHandler(svc GroupServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	r := newRoutes(opts)
	handle(r, GroupCreateGroupProcedure, svc.CreateGroup)
	handle(r, GroupGetGroupProcedure, svc.GetGroup)
	handle(r, GroupListGroupsProcedure, svc.ListGroups)
	handle(r, GroupGetGroupBalancesProcedure, svc.GetGroupBalances)
	return "/" + GroupServiceName + "/", r.mux
}

// NewAuthServiceHandler builds an HTTP handler for svc. It returns the path
// to mount it on.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	r := newRoutes(opts)
	handle(r, AuthRegisterProcedure, svc.Register)
	handle(r, AuthLoginProcedure, svc.Login)
	handle(r, AuthGetCurrentUserProcedure, svc.GetCurrentUser)
	return "/" + AuthServiceName + "/", r.mux
}
