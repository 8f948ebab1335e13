package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldOperation = "operation"
	FieldResource  = "resource"
	FieldUserID    = "user_id"
	FieldRecordID  = "record_id"
	FieldCoin      = "coin"
	FieldCount     = "count"
	FieldStatus    = "status_code"
	FieldError     = "error"
	FieldSuccess   = "success"
	FieldCacheKey  = "cache_key"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentSupabase = "supabase"
	ComponentStore    = "store"
	ComponentSyncer   = "syncer"
	ComponentQuotes   = "quotes"
	ComponentSession  = "session"
)

// Operations defines standard operation names
const (
	OpCreate  = "create"
	OpList    = "list"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpRefresh = "refresh"
	OpLogin   = "login"
	OpPrice   = "price"
)
