package client

var (
	LoadSessionFile = loadSession
	SaveSessionFile = saveSession
)

var (
	OpenSession  = open
	PrintRecords = printRecords
)
