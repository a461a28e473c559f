package ledger

import (
	"context"
	"strings"

	"github.com/mmynk/splitledger/internal/calculator"
	"github.com/mmynk/splitledger/internal/id"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// MemberBalance is the caller's balance with one other group member.
type MemberBalance struct {
	models.Participant
	Owed  float64
	Owing float64
	Net   float64
}

// Transfer is a suggested payment within a group.
type Transfer struct {
	From   models.Participant
	To     models.Participant
	Amount float64
}

// GroupBalances is the group-scoped view for one member.
type GroupBalances struct {
	Group     models.Group
	Members   []MemberBalance
	Suggested []Transfer
}

// GroupSummary is a group with the caller's single net balance in it.
type GroupSummary struct {
	models.Group
	Balance float64
}

// CreateGroup stores a new group. The caller is always a member. Group
// membership is otherwise managed elsewhere; this exists so a deployment
// can be seeded.
func (e *Engine) CreateGroup(ctx context.Context, callerID, name, description string, members []string) (*models.Group, error) {
	g := &models.Group{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Members:     dedupe(append([]string{callerID}, members...)),
	}

	err := e.write(ctx, "CreateGroup", callerID, func(ctx context.Context, tx storage.Tx) error {
		if g.Name == "" {
			return validation("group name is required")
		}
		g.ID = id.NewGroup()
		g.CreatedAt = e.now().Unix()
		return tx.CreateGroup(g)
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// GetGroup returns a group the caller belongs to.
func (e *Engine) GetGroup(ctx context.Context, userID, groupID string) (*models.Group, error) {
	var out *models.Group
	err := e.read(ctx, "GetGroup", userID, func(ctx context.Context, tx storage.Tx) error {
		g, err := memberGroup(tx, userID, groupID)
		if err != nil {
			return err
		}
		out = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GroupBalances computes userID's balance with every other member of
// groupID, plus a group-wide list of suggested payments.
func (e *Engine) GroupBalances(ctx context.Context, userID, groupID string) (*GroupBalances, error) {
	var out *GroupBalances
	err := e.read(ctx, "GroupBalances", userID, func(ctx context.Context, tx storage.Tx) error {
		group, err := memberGroup(tx, userID, groupID)
		if err != nil {
			return err
		}
		expenses, err := tx.ListExpensesByGroup(groupID)
		if err != nil {
			return err
		}
		settlements, err := tx.ListSettlementsByGroup(groupID)
		if err != nil {
			return err
		}

		known, err := participants(tx, group.Members)
		if err != nil {
			return err
		}
		people := withFallback(known)

		out = &GroupBalances{Group: *group}
		for _, m := range calculator.ComputeGroupBalances(userID, group, expenses, settlements, e.observe(ctx, "GroupBalances")) {
			out.Members = append(out.Members, MemberBalance{
				Participant: people(m.UserID),
				Owed:        m.Owed,
				Owing:       m.Owing,
				Net:         m.Net,
			})
		}
		for _, t := range calculator.SuggestSettlements(group, expenses, settlements) {
			out.Suggested = append(out.Suggested, Transfer{
				From:   people(t.From),
				To:     people(t.To),
				Amount: t.Amount,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListGroups returns the groups userID belongs to, oldest first, each with
// the caller's net balance in it.
func (e *Engine) ListGroups(ctx context.Context, userID string) ([]GroupSummary, error) {
	var out []GroupSummary
	err := e.read(ctx, "ListGroups", userID, func(ctx context.Context, tx storage.Tx) error {
		groups, err := tx.ListGroupsForMember(userID)
		if err != nil {
			return err
		}
		for i := range groups {
			g := &groups[i]
			expenses, err := tx.ListExpensesByGroup(g.ID)
			if err != nil {
				return err
			}
			settlements, err := tx.ListSettlementsByGroup(g.ID)
			if err != nil {
				return err
			}
			out = append(out, GroupSummary{
				Group:   *g,
				Balance: calculator.GroupBalance(userID, g, expenses, settlements),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func memberGroup(tx storage.Tx, userID, groupID string) (*models.Group, error) {
	group, err := tx.GetGroup(groupID)
	if err != nil {
		return nil, lookup(err, "group", groupID)
	}
	if !group.HasMember(userID) {
		return nil, unauthorized("you are not a member of this group")
	}
	return group, nil
}

// withFallback turns a participant map into a lookup that also resolves
// ids missing from it, such as a suggested payer who left the group.
func withFallback(people map[string]models.Participant) func(string) models.Participant {
	return func(uid string) models.Participant {
		if p, ok := people[uid]; ok {
			return p
		}
		return models.ParticipantOf(uid, nil)
	}
}
