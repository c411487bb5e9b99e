package parameter

// Status line
const (
	// StatusRows is the number of terminal rows reserved below the image
	StatusRows = 1

	// StatusMaxInputs is the number of input names listed before collapsing to a count
	StatusMaxInputs = 4

	// StatusKeysHint is appended to the full status line
	StatusKeysHint = "[r]otate [c]olor [0]reset [q]uit"

	// StatusSeparator joins status fields
	StatusSeparator = " | "
)

// Search output
const (
	// SearchTitleWidth is the longest title printed by the search subcommand
	SearchTitleWidth = 60
)
