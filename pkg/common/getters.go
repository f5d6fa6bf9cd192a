package common

// GetDestinationOrDefault returns the value from config if present, else the default wallet.json path.
func GetDestinationOrDefault(configValue string) string {
	if configValue != "" {
		return configValue
	}
	return DEFAULT_DESTINATION_WALLET // default
}

// GetDirectoryOrDefault returns the value from config if present, else the default receipt directory.
func GetDirectoryOrDefault(configValue string) string {
	if configValue != "" {
		return configValue
	}
	return DEFAULT_RECEIPT_DIRECTORY // default
}
