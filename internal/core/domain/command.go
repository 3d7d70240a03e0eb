package domain

// Command is an external process invocation: the compiler, the archiver,
// the program launcher or a plugin-managed server.
type Command struct {
	// Name labels the command in logs and spans.
	Name string
	Args []string
	Dir  string
	// Env holds extra "KEY=VALUE" pairs appended to the inherited environment.
	Env []string
}
