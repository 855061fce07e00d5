package ignore

// DefaultIgnoreDirs are directories at the top of the project that are not
// descended into when enumerating source roots. Build output lives here and
// would shadow real sources.
var DefaultIgnoreDirs = []string{
	// Version control
	".git",
	".svn",
	".hg",

	// Build output
	"target",
	"build",
	"out",
	"bin",
	"classes",

	// Build tool state
	".gradle",
	".bloop",
	".bsp",
	".metals",
	"project/target",

	// IDE / Editor
	".idea",
	".vscode",
	".settings",

	// Dependencies
	"node_modules",
}
