package types

// CLIArgs represents the command-line arguments.
// Zero values and nil pointers mean "not given on the command line".
type CLIArgs struct {
	ConfigFile string
	Dir        string
	StartYear  int
	EndYear    int
	Currency   string
	ReportType []string
	Top        int
	Browser    *bool
	SkipFetch  bool
	FetchOnly  bool
}
