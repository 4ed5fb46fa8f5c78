package api

const (
	welcomeMessage = "🎉 Thanks for installing Sups!\n\n" +
		"I collect daily stand-ups by DM and post them to your team channel. Let's get you set up:\n\n" +
		"1. Set the stand-up channel: `config #channel-name`\n" +
		"2. Set the reminder time: `reminder time HH:MM` (currently %s)\n" +
		"3. Set the posting deadline: `deadline time HH:MM` (currently %s)\n" +
		"4. Set your timezone: `timezone Area/City` (currently %s)\n\n" +
		"Invite me to the channel so I can post there."

	submissionAck = "Got it! ✅"
	lateAck       = "Got it! ✅ This one is marked late since the %s deadline has passed."

	skipReply     = "Got it! I'll mark you as skipping today's stand-up. 👍"
	vacationReply = "Got it! You're set as on vacation until %s. I won't send you reminders until then. 🏖️"
	pastDateReply = "That date is already in the past. Try `vacation until YYYY-MM-DD` with a future date."
	badDateReply  = "I couldn't read that date. Use the format `vacation until YYYY-MM-DD`."
	doneReply     = "Your stand-up updates will be posted to %s at %s. Keep sending updates until then and I'll combine them."
	noStatusReply = "You haven't sent a stand-up today yet. Just DM me your update!"

	unconfiguredChannel = "the stand-up channel (not configured yet)"

	dmHelpMessage = "*SUPS - Stand-up Bot Help* 📝\n\n" +
		"*How to submit your stand-up:*\n" +
		"Just send me a DM with your update! You can send multiple messages throughout the day - I'll combine them into one update.\n\n" +
		"*Commands:*\n" +
		"• `skip` or `skip today` - Skip today's stand-up\n" +
		"• `done` - See when your update will be posted\n" +
		"• `vacation until YYYY-MM-DD` - Set vacation mode\n" +
		"• `status` - Check your submission status\n" +
		"• `help` or `?` - Show this help message\n\n" +
		"*Settings:*\n" +
		"• `config #channel` - Post stand-ups to a channel\n" +
		"• `reminder time HH:MM` - When to remind people (24-hour)\n" +
		"• `deadline time HH:MM` - When to post the summary (24-hour)\n" +
		"• `timezone Area/City` - Team timezone\n\n" +
		"*Tips:*\n" +
		"• Send updates anytime before the deadline\n" +
		"• Multiple messages are combined automatically\n" +
		"• Late submissions are marked but still accepted"

	mentionHelpMessage = "📝 *SUPS - Stand-up Bot*\n\n" +
		"*Channel Commands:*\n" +
		"• `@SUPS status` - Show submission status for today\n" +
		"• `@SUPS help` - Show this help message\n" +
		"• `@SUPS config` - Show the current settings\n" +
		"• `@SUPS demo reminder` - 🧪 Test: Send reminders now\n" +
		"• `@SUPS demo standups` - 🧪 Test: Post standups to channel now\n\n" +
		"*DM Commands:*\n" +
		"Send a direct message to submit your stand-up!\n" +
		"• `skip` - Skip today's stand-up\n" +
		"• `vacation until YYYY-MM-DD` - Set vacation mode"

	unknownMention     = "I didn't understand that command. Try `@SUPS status` or `@SUPS help` for available commands."
	noChannelMention   = "⚠️ No standup channel configured. DM me `config #channel` to set one up."
	demoReminderStart  = "🧪 *Demo Mode:* Triggering reminder flow..."
	demoReminderNone   = "✅ Everyone has already submitted! No reminders needed."
	demoReminderDone   = "✅ Demo reminders sent to %d users: %s"
	demoStandupStart   = "🧪 *Demo Mode:* Posting standups to channel..."
	demoStandupEmpty   = "📭 No standups submitted today. DM me with your update first, then try again!"
	demoStandupDone    = "✅ Posted %d standup(s) to <#%s>!"
	genericFailure     = "❌ Something went wrong on my side. Please try again in a moment."
	rosterFailure      = "❌ Failed to get channel members: %v"
	noConfigFound      = "No valid configuration found. Try: `config #channel`, `reminder time 09:30`, `deadline time 10:00` or `timezone Asia/Kolkata`."
	configSummaryTitle = "⚙️ *Current settings*"
)
