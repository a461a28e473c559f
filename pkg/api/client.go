package api

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// Client calls every splitledger procedure. Set a session token with
// WithToken before calling authenticated procedures.
type Client struct {
	token string

	submitExpense     *connect.Client[SubmitExpenseRequest, SubmitExpenseResponse]
	deleteExpense     *connect.Client[DeleteExpenseRequest, DeleteExpenseResponse]
	submitSettlement  *connect.Client[SubmitSettlementRequest, SubmitSettlementResponse]
	getBalances       *connect.Client[GetBalancesRequest, GetBalancesResponse]
	getPairBalance    *connect.Client[GetPairBalanceRequest, GetPairBalanceResponse]
	getRecentActivity *connect.Client[GetRecentActivityRequest, GetRecentActivityResponse]
	calculateSplit    *connect.Client[CalculateSplitRequest, CalculateSplitResponse]
	getSpending       *connect.Client[GetSpendingRequest, GetSpendingResponse]

	createGroup      *connect.Client[CreateGroupRequest, CreateGroupResponse]
	getGroup         *connect.Client[GetGroupRequest, GetGroupResponse]
	listGroups       *connect.Client[ListGroupsRequest, ListGroupsResponse]
	getGroupBalances *connect.Client[GetGroupBalancesRequest, GetGroupBalancesResponse]

	register       *connect.Client[RegisterRequest, RegisterResponse]
	login          *connect.Client[LoginRequest, LoginResponse]
	getCurrentUser *connect.Client[GetCurrentUserRequest, GetCurrentUserResponse]
}

// NewClient returns a client for the server at baseURL.
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &Client{
		submitExpense:     connect.NewClient[SubmitExpenseRequest, SubmitExpenseResponse](httpClient, baseURL+LedgerSubmitExpenseProcedure, opts...),
		deleteExpense:     connect.NewClient[DeleteExpenseRequest, DeleteExpenseResponse](httpClient, baseURL+LedgerDeleteExpenseProcedure, opts...),
		submitSettlement:  connect.NewClient[SubmitSettlementRequest, SubmitSettlementResponse](httpClient, baseURL+LedgerSubmitSettlementProcedure, opts...),
		getBalances:       connect.NewClient[GetBalancesRequest, GetBalancesResponse](httpClient, baseURL+LedgerGetBalancesProcedure, opts...),
		getPairBalance:    connect.NewClient[GetPairBalanceRequest, GetPairBalanceResponse](httpClient, baseURL+LedgerGetPairBalanceProcedure, opts...),
		getRecentActivity: connect.NewClient[GetRecentActivityRequest, GetRecentActivityResponse](httpClient, baseURL+LedgerGetRecentActivityProcedure, opts...),
		calculateSplit:    connect.NewClient[CalculateSplitRequest, CalculateSplitResponse](httpClient, baseURL+LedgerCalculateSplitProcedure, opts...),
		getSpending:       connect.NewClient[GetSpendingRequest, GetSpendingResponse](httpClient, baseURL+LedgerGetSpendingProcedure, opts...),

		createGroup:      connect.NewClient[CreateGroupRequest, CreateGroupResponse](httpClient, baseURL+GroupCreateGroupProcedure, opts...),
		getGroup:         connect.NewClient[GetGroupRequest, GetGroupResponse](httpClient, baseURL+GroupGetGroupProcedure, opts...),
		listGroups:       connect.NewClient[ListGroupsRequest, ListGroupsResponse](httpClient, baseURL+GroupListGroupsProcedure, opts...),
		getGroupBalances: connect.NewClient[GetGroupBalancesRequest, GetGroupBalancesResponse](httpClient, baseURL+GroupGetGroupBalancesProcedure, opts...),

		register:       connect.NewClient[RegisterRequest, RegisterResponse](httpClient, baseURL+AuthRegisterProcedure, opts...),
		login:          connect.NewClient[LoginRequest, LoginResponse](httpClient, baseURL+AuthLoginProcedure, opts...),
		getCurrentUser: connect.NewClient[GetCurrentUserRequest, GetCurrentUserResponse](httpClient, baseURL+AuthGetCurrentUserProcedure, opts...),
	}
}

// WithToken returns a copy of c that sends token as a bearer credential.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func call[Req, Res any](ctx context.Context, c *Client, cl *connect.Client[Req, Res], msg *Req) (*Res, error) {
	req := connect.NewRequest(msg)
	if c.token != "" {
		req.Header().Set("Authorization", "Bearer "+c.token)
	}
	resp, err := cl.CallUnary(ctx, req)
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

func (c *Client) SubmitExpense(ctx context.Context, req *SubmitExpenseRequest) (*SubmitExpenseResponse, error) {
	return call(ctx, c, c.submitExpense, req)
}

func (c *Client) DeleteExpense(ctx context.Context, req *DeleteExpenseRequest) (*DeleteExpenseResponse, error) {
	return call(ctx, c, c.deleteExpense, req)
}

func (c *Client) SubmitSettlement(ctx context.Context, req *SubmitSettlementRequest) (*SubmitSettlementResponse, error) {
	return call(ctx, c, c.submitSettlement, req)
}

func (c *Client) GetBalances(ctx context.Context, req *GetBalancesRequest) (*GetBalancesResponse, error) {
	return call(ctx, c, c.getBalances, req)
}

func (c *Client) GetPairBalance(ctx context.Context, req *GetPairBalanceRequest) (*GetPairBalanceResponse, error) {
	return call(ctx, c, c.getPairBalance, req)
}

func (c *Client) GetRecentActivity(ctx context.Context, req *GetRecentActivityRequest) (*GetRecentActivityResponse, error) {
	return call(ctx, c, c.getRecentActivity, req)
}

func (c *Client) CalculateSplit(ctx context.Context, req *CalculateSplitRequest) (*CalculateSplitResponse, error) {
	return call(ctx, c, c.calculateSplit, req)
}

func (c *Client) GetSpending(ctx context.Context, req *GetSpendingRequest) (*GetSpendingResponse, error) {
	return call(ctx, c, c.getSpending, req)
}

func (c *Client) CreateGroup(ctx context.Context, req *CreateGroupRequest) (*CreateGroupResponse, error) {
	return call(ctx, c, c.createGroup, req)
}

func (c *Client) GetGroup(ctx context.Context, req *GetGroupRequest) (*GetGroupResponse, error) {
	return call(ctx, c, c.getGroup, req)
}

func (c *Client) ListGroups(ctx context.Context, req *ListGroupsRequest) (*ListGroupsResponse, error) {
	return call(ctx, c, c.listGroups, req)
}

func (c *Client) GetGroupBalances(ctx context.Context, req *GetGroupBalancesRequest) (*GetGroupBalancesResponse, error) {
	return call(ctx, c, c.getGroupBalances, req)
}

func (c *Client) Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error) {
	return call(ctx, c, c.register, req)
}

func (c *Client) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	return call(ctx, c, c.login, req)
}

func (c *Client) GetCurrentUser(ctx context.Context, req *GetCurrentUserRequest) (*GetCurrentUserResponse, error) {
	return call(ctx, c, c.getCurrentUser, req)
}
