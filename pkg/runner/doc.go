/*
Package runner implements the command loop and I/O orchestration for
driving a layout editor from a terminal or a pipe.

It bridges the editor (ports.LayoutEditor) and the outside world: it reads
editor commands through a pluggable handler, applies them, and writes the
outcome back through the same handler. Swapping the handler switches
between an interactive text REPL and a structured JSON-lines protocol
without touching the loop.

# Key Components

  - Runner: the loop that reads commands, applies them and reports results.
  - IOHandler: strategy for how commands arrive and results are presented.
  - TextHandler: interactive REPL (add/remove/move/undo/tree/...).
  - JSONHandler: one JSON command per line in, one JSON response per line out.
  - MutationInterceptor: policy middleware over document mutations.

# Usage

	ed := lattice.New()
	r := runner.NewRunner(ed,
		runner.WithHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
