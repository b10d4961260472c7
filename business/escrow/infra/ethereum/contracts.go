package ethereum

// RentEscrowABI is the ABI for the rent escrow contract. Only the
// entry points and views this client calls are included.
const RentEscrowABI = `[
	{
		"inputs": [],
		"name": "initialize",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "address", "name": "tenant", "type": "address"},
			{"internalType": "string", "name": "propertyName", "type": "string"},
			{"internalType": "string", "name": "propertyAddress", "type": "string"},
			{"internalType": "uint256", "name": "securityDeposit", "type": "uint256"},
			{"internalType": "uint256", "name": "monthlyRent", "type": "uint256"},
			{"internalType": "uint256", "name": "startDate", "type": "uint256"},
			{"internalType": "uint256", "name": "endDate", "type": "uint256"}
		],
		"name": "createEscrow",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "uint256", "name": "escrowId", "type": "uint256"}
		],
		"name": "signEscrow",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "uint256", "name": "escrowId", "type": "uint256"},
			{"internalType": "uint256", "name": "depositAmount", "type": "uint256"}
		],
		"name": "verifyAaveDeposit",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "uint256", "name": "escrowId", "type": "uint256"},
			{"internalType": "address", "name": "asset", "type": "address"}
		],
		"name": "settleEscrow",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "uint256", "name": "escrowId", "type": "uint256"}
		],
		"name": "getEscrow",
		"outputs": [
			{"internalType": "uint256", "name": "id", "type": "uint256"},
			{"internalType": "address", "name": "landlord", "type": "address"},
			{"internalType": "address", "name": "tenant", "type": "address"},
			{"internalType": "string", "name": "propertyName", "type": "string"},
			{"internalType": "string", "name": "propertyAddress", "type": "string"},
			{"internalType": "uint256", "name": "securityDeposit", "type": "uint256"},
			{"internalType": "uint256", "name": "monthlyRent", "type": "uint256"},
			{"internalType": "uint256", "name": "startDate", "type": "uint256"},
			{"internalType": "uint256", "name": "endDate", "type": "uint256"},
			{"internalType": "bool", "name": "landlordSigned", "type": "bool"},
			{"internalType": "bool", "name": "tenantSigned", "type": "bool"},
			{"internalType": "uint256", "name": "depositedAmount", "type": "uint256"},
			{"internalType": "bool", "name": "settled", "type": "bool"},
			{"internalType": "uint256", "name": "createdAt", "type": "uint256"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "address", "name": "landlord", "type": "address"}
		],
		"name": "getLandlordEscrows",
		"outputs": [
			{"internalType": "uint256[]", "name": "", "type": "uint256[]"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "address", "name": "tenant", "type": "address"}
		],
		"name": "getTenantEscrows",
		"outputs": [
			{"internalType": "uint256[]", "name": "", "type": "uint256[]"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "uint256", "name": "escrowId", "type": "uint256"}
		],
		"name": "getEscrowDepositStatus",
		"outputs": [
			{"internalType": "bool", "name": "deposited", "type": "bool"},
			{"internalType": "uint256", "name": "amount", "type": "uint256"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "getResourceAccountAddress",
		"outputs": [
			{"internalType": "address", "name": "", "type": "address"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "address", "name": "asset", "type": "address"}
		],
		"name": "getContractUsdcBalance",
		"outputs": [
			{"internalType": "uint256", "name": "", "type": "uint256"}
		],
		"stateMutability": "view",
		"type": "function"
	}
]`

// escrowTupleLen is the number of outputs in a well-formed getEscrow
// response. Shorter responses are treated as absent escrows.
const escrowTupleLen = 14
