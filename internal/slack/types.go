package slack

// Installation is the outcome of a completed OAuth v2 exchange.
type Installation struct {
	TeamID      string
	TeamName    string
	AccessToken string
	BotUserID   string
	InstallerID string
}
