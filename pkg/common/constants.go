package common

// ReceiptFileName is the marker written next to the node's data once it has been funded
const ReceiptFileName = "funding.txt"

const DEFAULT_DESTINATION_WALLET = "/nkn/data/wallet.json"
const DEFAULT_RECEIPT_DIRECTORY = "/nkn/data"

// EnvPrefix namespaces every environment variable the funder reads
const EnvPrefix = "NKN_FUNDER_"

// AmountDecimalPlaces is the precision of an NKN amount; 1 NKN is 10^8 of the smallest unit
const AmountDecimalPlaces = 8
