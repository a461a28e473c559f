package api

// Participant is a user as shown next to a balance.
type Participant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	ImageURL    string `json:"imageUrl,omitempty"`
	CreatedAt   int64  `json:"createdAt"`
}

type Split struct {
	ParticipantID string  `json:"participantId"`
	Amount        float64 `json:"amount"`
	Paid          bool    `json:"paid,omitempty"`
}

// Expense dates are Unix milliseconds.
type Expense struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Date        int64   `json:"date"`
	PayerID     string  `json:"payerId"`
	SplitType   string  `json:"splitType"`
	Splits      []Split `json:"splits"`
	GroupID     string  `json:"groupId,omitempty"`
	CreatedBy   string  `json:"createdBy"`
}

type Settlement struct {
	ID                string   `json:"id"`
	Amount            float64  `json:"amount"`
	Note              string   `json:"note,omitempty"`
	Date              int64    `json:"date"`
	PayerID           string   `json:"payerId"`
	ReceiverID        string   `json:"receiverId"`
	GroupID           string   `json:"groupId,omitempty"`
	RelatedExpenseIDs []string `json:"relatedExpenseIds,omitempty"`
	CreatedBy         string   `json:"createdBy"`
}

type Group struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Members     []string `json:"members"`
	CreatedAt   int64    `json:"createdAt"`
}

// LedgerService

type SubmitExpenseRequest struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category,omitempty"`
	Date        int64   `json:"date,omitempty"`
	PayerID     string  `json:"payerId"`
	SplitType   string  `json:"splitType"`
	Splits      []Split `json:"splits"`
	GroupID     string  `json:"groupId,omitempty"`
}

type SubmitExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expenseId"`
}

type DeleteExpenseResponse struct {
	Success bool `json:"success"`
}

type SubmitSettlementRequest struct {
	Amount            float64  `json:"amount"`
	Note              string   `json:"note,omitempty"`
	PayerID           string   `json:"payerId"`
	ReceiverID        string   `json:"receiverId"`
	GroupID           string   `json:"groupId,omitempty"`
	RelatedExpenseIDs []string `json:"relatedExpenseIds,omitempty"`
}

type SubmitSettlementResponse struct {
	Settlement Settlement `json:"settlement"`
}

type GetBalancesRequest struct{}

type CounterpartyBalance struct {
	User   Participant `json:"user"`
	Amount float64     `json:"amount"`
}

type GetBalancesResponse struct {
	Owed    float64               `json:"owed"`
	Owing   float64               `json:"owing"`
	Total   float64               `json:"total"`
	OwedBy  []CounterpartyBalance `json:"owedBy"`
	OwingTo []CounterpartyBalance `json:"owingTo"`
}

type GetPairBalanceRequest struct {
	UserID string `json:"userId"`
}

// GetPairBalanceResponse.Net is positive when the counterparty owes the
// caller.
type GetPairBalanceResponse struct {
	Counterparty Participant  `json:"counterparty"`
	Expenses     []Expense    `json:"expenses"`
	Settlements  []Settlement `json:"settlements"`
	Net          float64      `json:"net"`
	YouAreOwed   float64      `json:"youAreOwed"`
	YouOwe       float64      `json:"youOwe"`
}

type GetRecentActivityRequest struct{}

type ActivityItem struct {
	Expense   Expense `json:"expense"`
	PayerName string  `json:"payerName"`
	GroupName string  `json:"groupName,omitempty"`
}

type GetRecentActivityResponse struct {
	Items []ActivityItem `json:"items"`
}

type Share struct {
	ParticipantID string  `json:"participantId"`
	Value         float64 `json:"value,omitempty"`
}

type CalculateSplitRequest struct {
	Amount    float64 `json:"amount"`
	SplitType string  `json:"splitType"`
	Shares    []Share `json:"shares"`
}

type CalculateSplitResponse struct {
	Splits []Split `json:"splits"`
}

// GetSpendingRequest.Year of zero selects the current year.
type GetSpendingRequest struct {
	Year int `json:"year,omitempty"`
}

type MonthTotal struct {
	Start int64   `json:"start"`
	Total float64 `json:"total"`
}

type GetSpendingResponse struct {
	Year   int          `json:"year"`
	Total  float64      `json:"total"`
	Months []MonthTotal `json:"months"`
}

// GroupService

type CreateGroupRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Members     []string `json:"members"`
}

type CreateGroupResponse struct {
	Group Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId"`
}

type GetGroupResponse struct {
	Group Group `json:"group"`
}

type ListGroupsRequest struct{}

type GroupSummary struct {
	Group   Group   `json:"group"`
	Balance float64 `json:"balance"`
}

type ListGroupsResponse struct {
	Groups []GroupSummary `json:"groups"`
}

type GetGroupBalancesRequest struct {
	GroupID string `json:"groupId"`
}

type MemberBalance struct {
	Member Participant `json:"member"`
	Owed   float64     `json:"owed"`
	Owing  float64     `json:"owing"`
	Net    float64     `json:"net"`
}

type Transfer struct {
	From   Participant `json:"from"`
	To     Participant `json:"to"`
	Amount float64     `json:"amount"`
}

type GetGroupBalancesResponse struct {
	Group     Group           `json:"group"`
	Members   []MemberBalance `json:"members"`
	Suggested []Transfer      `json:"suggested"`
}

// AuthService

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User User `json:"user"`
}
