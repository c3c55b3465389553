// Command postit is a sticky-note task manager for the terminal.
//
// Run without arguments it opens the interactive board. The projects, tasks,
// export and import subcommands script the same data from the shell.
package main
