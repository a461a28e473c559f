package service

import (
	"context"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/pkg/api"
)

// GroupService implements api.GroupServiceHandler.
type GroupService struct {
	engine *ledger.Engine
	logger *slog.Logger
}

var _ api.GroupServiceHandler = (*GroupService)(nil)

// NewGroupService creates a new GroupService.
func NewGroupService(engine *ledger.Engine, logger *slog.Logger) *GroupService {
	return &GroupService{engine: engine, logger: logger}
}

// CreateGroup creates a new group with the caller as its first member.
func (s *GroupService) CreateGroup(ctx context.Context, req *connect.Request[api.CreateGroupRequest]) (*connect.Response[api.CreateGroupResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticated()
	}

	group, err := s.engine.CreateGroup(ctx, userID, req.Msg.Name, req.Msg.Description, req.Msg.Members)
	if err != nil {
		return nil, toConnectError(err)
	}

	s.logger.InfoContext(ctx, "Group created", "group_id", group.ID, "members_count", len(group.Members))
	return connect.NewResponse(&api.CreateGroupResponse{Group: groupToAPI(group)}), nil
}

// GetGroup retrieves a group the caller belongs to.
func (s *GroupService) GetGroup(ctx context.Context, req *connect.Request[api.GetGroupRequest]) (*connect.Response[api.GetGroupResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticated()
	}

	group, err := s.engine.GetGroup(ctx, userID, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&api.GetGroupResponse{Group: groupToAPI(group)}), nil
}

// ListGroups lists the caller's groups with the caller's balance in each.
func (s *GroupService) ListGroups(ctx context.Context, req *connect.Request[api.ListGroupsRequest]) (*connect.Response[api.ListGroupsResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticated()
	}

	groups, err := s.engine.ListGroups(ctx, userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &api.ListGroupsResponse{Groups: make([]api.GroupSummary, len(groups))}
	for i := range groups {
		resp.Groups[i] = api.GroupSummary{Group: groupToAPI(&groups[i].Group), Balance: groups[i].Balance}
	}
	return connect.NewResponse(resp), nil
}

// GetGroupBalances returns the caller's balance with every other member and
// the payments that would settle the group.
func (s *GroupService) GetGroupBalances(ctx context.Context, req *connect.Request[api.GetGroupBalancesRequest]) (*connect.Response[api.GetGroupBalancesResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, unauthenticated()
	}

	gb, err := s.engine.GroupBalances(ctx, userID, req.Msg.GroupID)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &api.GetGroupBalancesResponse{
		Group:     groupToAPI(&gb.Group),
		Members:   make([]api.MemberBalance, len(gb.Members)),
		Suggested: make([]api.Transfer, len(gb.Suggested)),
	}
	for i, m := range gb.Members {
		resp.Members[i] = api.MemberBalance{Member: participantToAPI(m.Participant), Owed: m.Owed, Owing: m.Owing, Net: m.Net}
	}
	for i, t := range gb.Suggested {
		resp.Suggested[i] = api.Transfer{From: participantToAPI(t.From), To: participantToAPI(t.To), Amount: t.Amount}
	}
	return connect.NewResponse(resp), nil
}
