package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField   Code = "REQUIRED_FIELD"
	CodeInvalidInput    Code = "INVALID_INPUT"
	CodeInvalidFormat   Code = "INVALID_FORMAT"
	CodeInvalidState    Code = "INVALID_STATE"
	CodeNotFound        Code = "NOT_FOUND"
	CodeValidationError Code = "VALIDATION_ERROR"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Escrow-specific error codes
const (
	// Blockchain/Ethereum errors
	CodeEthereumConnectionFailed Code = "ETHEREUM_CONNECTION_FAILED"
	CodeEthereumRPCError         Code = "ETHEREUM_RPC_ERROR"
	CodeContractCallFailed       Code = "CONTRACT_CALL_FAILED"
	CodeContractReadFailed       Code = "CONTRACT_READ_FAILED"
	CodeMalformedResponse        Code = "MALFORMED_RESPONSE"

	// Transaction/signing errors
	CodeSigningDeclined     Code = "SIGNING_DECLINED"
	CodeTransactionRejected Code = "TRANSACTION_REJECTED"
	CodeNoSigner            Code = "NO_SIGNER"

	// Escrow lifecycle errors
	CodeEscrowNotFound   Code = "ESCROW_NOT_FOUND"
	CodeInvalidTermDates Code = "INVALID_TERM_DATES"
	CodeInvalidAmount    Code = "INVALID_AMOUNT"

	// Deposit saga errors
	CodeDepositSupplyFailed Code = "DEPOSIT_SUPPLY_FAILED"
	CodeDepositUnverified   Code = "DEPOSIT_UNVERIFIED"
	CodeNoPendingDeposit    Code = "NO_PENDING_DEPOSIT"
	CodeIntentStoreFailure  Code = "INTENT_STORE_FAILURE"

	// Yield integration errors
	CodeYieldQueryFailed Code = "YIELD_QUERY_FAILED"
	CodeAPYUnavailable   Code = "APY_UNAVAILABLE"
	CodeAaveSupplyFailed Code = "AAVE_SUPPLY_FAILED"

	// Cache errors
	CodeCacheMiss    Code = "CACHE_MISS"
	CodeCacheExpired Code = "CACHE_EXPIRED"

	// Circuit breaker errors
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
