package logger

var (
	CollectChain = collectChain
	FormatChain  = formatChain
)
