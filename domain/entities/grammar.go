package entities

// Line grammar names understood by the walkers
const (
	GrammarDebug        = "Debug"
	GrammarDotSplit     = "DotSplit"
	GrammarIP           = "IP"
	GrammarInt          = "INT"
	GrammarMAC          = "MAC"
	GrammarIndexInt     = "INDEX-INT"
	GrammarIndexMAC     = "INDEX-MAC"
	GrammarPreindexMAC  = "PREINDEX-MAC"
	GrammarIPMAC        = "IP-MAC"
	GrammarIPMask       = "IP-MASK"
	GrammarIPInt        = "IP-INT"
	GrammarIndexDesc    = "INDEX-DESC"
	GrammarPreindexDesc = "PREINDEX-DESC"
	GrammarIndexHex     = "INDEX-HEX"
	GrammarIndexDescHex = "INDEX-DESC-HEX"
	GrammarDefault      = "DEFAULT"
)
