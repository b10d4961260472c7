package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField:   "Required field is missing",
	CodeInvalidInput:    "Invalid input provided",
	CodeInvalidFormat:   "Invalid data format",
	CodeInvalidState:    "Invalid state for this operation",
	CodeNotFound:        "Resource not found",
	CodeValidationError: "Validation error",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Blockchain/Ethereum errors
	CodeEthereumConnectionFailed: "Failed to connect to Ethereum node",
	CodeEthereumRPCError:         "Ethereum RPC call failed",
	CodeContractCallFailed:       "Smart contract call failed",
	CodeContractReadFailed:       "Smart contract view call failed",
	CodeMalformedResponse:        "Malformed contract response",

	// Transaction/signing errors
	CodeSigningDeclined:     "Transaction signing was declined",
	CodeTransactionRejected: "Transaction rejected by the network",
	CodeNoSigner:            "No signing key configured (read-only mode)",

	// Escrow lifecycle errors
	CodeEscrowNotFound:   "Escrow agreement not found",
	CodeInvalidTermDates: "Lease end date must be after start date",
	CodeInvalidAmount:    "Invalid amount",

	// Deposit saga errors
	CodeDepositSupplyFailed: "Deposit to the lending pool failed",
	CodeDepositUnverified:   "Funds supplied to the lending pool but not yet recorded on the escrow contract",
	CodeNoPendingDeposit:    "No pending deposit to retry",
	CodeIntentStoreFailure:  "Failed to persist deposit intent",

	// Yield integration errors
	CodeYieldQueryFailed: "Failed to query lending pool position",
	CodeAPYUnavailable:   "Current APY unavailable",
	CodeAaveSupplyFailed: "Lending pool supply call failed",

	// Cache errors
	CodeCacheMiss:    "Cache miss",
	CodeCacheExpired: "Cache entry expired",

	// Circuit breaker errors
	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}
