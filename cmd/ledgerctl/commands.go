package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"

	"github.com/mmynk/splitledger/pkg/api"
)

type loginCmd struct {
	email    string
	password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "log in and print a session token" }
func (*loginCmd) Usage() string {
	return `ledgerctl login -email <email> -password <password>

  Prints a session token. Export it as SPLITLEDGER_TOKEN for other commands.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "account email")
	f.StringVar(&c.password, "password", "", "account password")
}

func (c *loginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.email == "" || c.password == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	resp, err := newClient().Login(ctx, &api.LoginRequest{Email: c.email, Password: c.password})
	if err != nil {
		return fail(os.Stderr, err)
	}
	fmt.Println(resp.Token)
	return subcommands.ExitSuccess
}

type balancesCmd struct{}

func (*balancesCmd) Name() string             { return "balances" }
func (*balancesCmd) Synopsis() string         { return "show who owes you and whom you owe" }
func (*balancesCmd) Usage() string            { return "ledgerctl balances\n" }
func (*balancesCmd) SetFlags(f *flag.FlagSet) {}

func (c *balancesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	client, err := sessionClient()
	if err != nil {
		return fail(os.Stderr, err)
	}
	resp, err := client.GetBalances(ctx, &api.GetBalancesRequest{})
	if err != nil {
		return fail(os.Stderr, err)
	}
	printBalances(os.Stdout, resp)
	return subcommands.ExitSuccess
}

func printBalances(w io.Writer, b *api.GetBalancesResponse) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "owed to you\t%s\n", money(b.Owed))
	fmt.Fprintf(tw, "you owe\t%s\n", money(b.Owing))
	fmt.Fprintf(tw, "net\t%s\n", money(b.Total))
	for _, c := range b.OwedBy {
		fmt.Fprintf(tw, "  %s owes you\t%s\t%s\n", c.User.Name, money(c.Amount), c.User.ID)
	}
	for _, c := range b.OwingTo {
		fmt.Fprintf(tw, "  you owe %s\t%s\t%s\n", c.User.Name, money(c.Amount), c.User.ID)
	}
	tw.Flush()
}

type pairCmd struct{}

func (*pairCmd) Name() string             { return "pair" }
func (*pairCmd) Synopsis() string         { return "show your history and balance with one user" }
func (*pairCmd) Usage() string            { return "ledgerctl pair <user-id>\n" }
func (*pairCmd) SetFlags(f *flag.FlagSet) {}

func (c *pairCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	client, err := sessionClient()
	if err != nil {
		return fail(os.Stderr, err)
	}
	resp, err := client.GetPairBalance(ctx, &api.GetPairBalanceRequest{UserID: f.Arg(0)})
	if err != nil {
		return fail(os.Stderr, err)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	switch {
	case resp.YouAreOwed > 0:
		fmt.Fprintf(tw, "%s owes you %s\n", resp.Counterparty.Name, money(resp.YouAreOwed))
	case resp.YouOwe > 0:
		fmt.Fprintf(tw, "you owe %s %s\n", resp.Counterparty.Name, money(resp.YouOwe))
	default:
		fmt.Fprintf(tw, "you and %s are settled up\n", resp.Counterparty.Name)
	}
	for _, e := range resp.Expenses {
		fmt.Fprintf(tw, "%s\texpense\t%s\t%s\n", day(e.Date), money(e.Amount), e.Description)
	}
	for _, s := range resp.Settlements {
		fmt.Fprintf(tw, "%s\tsettlement\t%s\t%s\n", day(s.Date), money(s.Amount), s.Note)
	}
	tw.Flush()
	return subcommands.ExitSuccess
}

type groupCmd struct{}

func (*groupCmd) Name() string     { return "group" }
func (*groupCmd) Synopsis() string { return "list your groups, or show balances within one" }
func (*groupCmd) Usage() string {
	return `ledgerctl group [<group-id>]

  Without an argument, lists your groups with your balance in each.
`
}
func (*groupCmd) SetFlags(f *flag.FlagSet) {}

func (c *groupCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	client, err := sessionClient()
	if err != nil {
		return fail(os.Stderr, err)
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	if f.NArg() == 0 {
		resp, err := client.ListGroups(ctx, &api.ListGroupsRequest{})
		if err != nil {
			return fail(os.Stderr, err)
		}
		for _, g := range resp.Groups {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", g.Group.ID, g.Group.Name, money(g.Balance))
		}
		return subcommands.ExitSuccess
	}

	resp, err := client.GetGroupBalances(ctx, &api.GetGroupBalancesRequest{GroupID: f.Arg(0)})
	if err != nil {
		return fail(os.Stderr, err)
	}
	fmt.Fprintf(tw, "%s\n", resp.Group.Name)
	for _, m := range resp.Members {
		fmt.Fprintf(tw, "  %s\t%s\n", m.Member.Name, money(m.Net))
	}
	if len(resp.Suggested) > 0 {
		fmt.Fprintln(tw, "suggested payments")
		for _, t := range resp.Suggested {
			fmt.Fprintf(tw, "  %s -> %s\t%s\n", t.From.Name, t.To.Name, money(t.Amount))
		}
	}
	return subcommands.ExitSuccess
}

type activityCmd struct{}

func (*activityCmd) Name() string             { return "activity" }
func (*activityCmd) Synopsis() string         { return "show recent expenses involving you" }
func (*activityCmd) Usage() string            { return "ledgerctl activity\n" }
func (*activityCmd) SetFlags(f *flag.FlagSet) {}

func (c *activityCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	client, err := sessionClient()
	if err != nil {
		return fail(os.Stderr, err)
	}
	resp, err := client.GetRecentActivity(ctx, &api.GetRecentActivityRequest{})
	if err != nil {
		return fail(os.Stderr, err)
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, it := range resp.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\tpaid by %s\t%s\n",
			day(it.Expense.Date), it.Expense.Description, money(it.Expense.Amount), it.PayerName, it.GroupName)
	}
	tw.Flush()
	return subcommands.ExitSuccess
}

type settleCmd struct {
	to       string
	from     string
	amount   float64
	group    string
	note     string
	expenses string
}

func (*settleCmd) Name() string     { return "settle" }
func (*settleCmd) Synopsis() string { return "record a payment" }
func (*settleCmd) Usage() string {
	return `ledgerctl settle -to <user-id> -amount <amount> [-from <user-id>] [-group <group-id>] [-note <text>] [-expenses id,id]

  Records a payment. -from defaults to you; pass -from <them> -to <you>
  to record a payment you received.
`
}

func (c *settleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.to, "to", "", "receiver user id")
	f.StringVar(&c.from, "from", "", "payer user id (defaults to you)")
	f.Float64Var(&c.amount, "amount", 0, "amount paid")
	f.StringVar(&c.group, "group", "", "group id for a group settlement")
	f.StringVar(&c.note, "note", "", "optional note")
	f.StringVar(&c.expenses, "expenses", "", "comma-separated ids of expenses this payment covers")
}

func (c *settleCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.to == "" || c.amount <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	client, err := sessionClient()
	if err != nil {
		return fail(os.Stderr, err)
	}

	payer := c.from
	if payer == "" {
		me, err := client.GetCurrentUser(ctx, &api.GetCurrentUserRequest{})
		if err != nil {
			return fail(os.Stderr, err)
		}
		payer = me.User.ID
	}

	resp, err := client.SubmitSettlement(ctx, &api.SubmitSettlementRequest{
		Amount:            c.amount,
		Note:              c.note,
		PayerID:           payer,
		ReceiverID:        c.to,
		GroupID:           c.group,
		RelatedExpenseIDs: splitList(c.expenses),
	})
	if err != nil {
		return fail(os.Stderr, err)
	}
	fmt.Println(resp.Settlement.ID)
	return subcommands.ExitSuccess
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func day(ms int64) string {
	return time.UnixMilli(ms).Format(time.DateOnly)
}
