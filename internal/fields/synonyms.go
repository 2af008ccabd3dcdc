package fields

// SchemaVersion identifies the synonym lists below. Bump it when a list
// changes so logged runs can be matched to the field names they accepted.
const SchemaVersion = 3

// Fallback labels for missing string facts.
const (
	FallbackLabel        = "Lainnya"
	FallbackSubscription = "langganan misterius"
)

// Merchant frequency rows.
var (
	MerchantName  = Keys{"merchant", "name", "title"}
	MerchantWeek  = Keys{"week_start", "period", "date"}
	MerchantCount = Keys{"count", "tx_count", "frequency"}
	MerchantTotal = Keys{"total", "total_amount", "amount", "sum"}
)

// Monthly cashflow rows.
var (
	CashflowMonth   = Keys{"month", "period_month", "period"}
	CashflowIncome  = Keys{"income", "inflow"}
	CashflowExpense = Keys{"expense", "outflow"}
	CashflowNet     = Keys{"net", "balance"}
)

// Weekly category rows.
var (
	CategoryName  = Keys{"category", "name", "label"}
	CategoryWeek  = Keys{"week_start", "period", "date"}
	CategoryTotal = Keys{"total", "total_amount", "amount", "sum"}
)

// Budget rows.
var (
	BudgetPlanned     = Keys{"planned", "planned_amount", "amount"}
	BudgetRolloverIn  = Keys{"rollover_in"}
	BudgetRolloverOut = Keys{"rollover_out"}
	BudgetMonth       = Keys{"period_month", "month", "period"}
)

// Expense rows.
var (
	ExpenseAmount  = Keys{"amount", "total"}
	ExpenseDate    = Keys{"date", "occurred_at", "created_at"}
	ExpenseType    = Keys{"type", "kind"}
	ExpenseDeleted = Keys{"deleted_at"}
)

// Subscription rows.
var (
	SubscriptionName   = Keys{"name", "title", "vendor"}
	SubscriptionAmount = Keys{"amount", "due_amount"}
	SubscriptionDue    = Keys{"next_due_date", "due_date"}
	SubscriptionStatus = Keys{"status"}
)

// Goal rows.
var (
	GoalID      = Keys{"id", "goal_id"}
	GoalTitle   = Keys{"title", "name"}
	GoalTarget  = Keys{"target_amount", "target"}
	GoalSaved   = Keys{"saved_amount", "saved"}
	GoalUpdated = Keys{"updated_at", "created_at"}
)
