package aave

// PoolABI is the Aave V3 pool ABI, reduced to the supply entry point
// used by the deposit flow.
const PoolABI = `[
	{
		"inputs": [
			{"internalType": "address", "name": "asset", "type": "address"},
			{"internalType": "uint256", "name": "amount", "type": "uint256"},
			{"internalType": "address", "name": "onBehalfOf", "type": "address"},
			{"internalType": "uint16", "name": "referralCode", "type": "uint16"}
		],
		"name": "supply",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

// YieldViewsABI covers the escrow contract's Aave position views.
const YieldViewsABI = `[
	{
		"inputs": [],
		"name": "getAavePosition",
		"outputs": [
			{"internalType": "uint256", "name": "principalSupplied", "type": "uint256"},
			{"internalType": "uint256", "name": "atokenBalance", "type": "uint256"},
			{"internalType": "uint256", "name": "lastUpdated", "type": "uint256"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "getAaveYield",
		"outputs": [
			{"internalType": "uint256", "name": "", "type": "uint256"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "getCurrentAaveApy",
		"outputs": [
			{"internalType": "uint256", "name": "", "type": "uint256"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [],
		"name": "getTotalAaveValue",
		"outputs": [
			{"internalType": "uint256", "name": "", "type": "uint256"}
		],
		"stateMutability": "view",
		"type": "function"
	},
	{
		"inputs": [
			{"internalType": "uint256", "name": "escrowId", "type": "uint256"}
		],
		"name": "getEstimatedEscrowYield",
		"outputs": [
			{"internalType": "uint256", "name": "", "type": "uint256"}
		],
		"stateMutability": "view",
		"type": "function"
	}
]`
