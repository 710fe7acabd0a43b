package logging

// 结构化日志字段名
const (
	FieldComponent  = "component"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldUserID     = "user_id"
	FieldBudgetID   = "budget_id"
	FieldExpenseID  = "expense_id"
	FieldStatus     = "status"
	FieldError      = "error"
)

// 组件名
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentStorage   = "storage"
	ComponentAssistant = "assistant"
	ComponentAlert     = "alert"
	ComponentAMQP      = "amqp"
	ComponentEmail     = "email"
)
