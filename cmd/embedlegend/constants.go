package main

const (
	AppName = "embedlegend"

	FormatMIF = "mif"
	FormatKMZ = "kmz"

	// ExitCanceled is the shell convention for a run stopped by SIGINT.
	ExitCanceled = 130
	ExitFailure  = 1

	LogTimeFormat = "15:04:05.00"

	CursorMark   = "▸ "
	CursorBlank  = "  "
	CheckedBox   = "[x]"
	UncheckedBox = "[ ]"
	Swatch       = "■"

	// PNGFilePerm is the mode of legend images written by the legend command.
	PNGFilePerm = 0o644
)
