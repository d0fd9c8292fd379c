// Package docxml renders a documentation model to doxygen-style XML.
//
// The core is a streaming markup emitter: it consumes a flat sequence of
// rich-text events (text, styles, links, lists, tables, sections) and writes
// well-formed nested markup without building a tree and without a second
// pass. Paragraphs are implicit. Inline content opens one lazily at the
// innermost scope and block constructs close it, so front ends never emit
// paragraph markers themselves.
//
// Core properties:
//   - Forward-only output into an append-only buffer
//   - Paragraph and list state kept on two small tagged stacks
//   - Clone/Append for rendering nested blocks in isolation
//   - Compounds rendered in parallel and streamed in model order
//
// Example:
//
//	e := docxml.NewEmitter()
//	e.StartList(docxml.ListItemized)
//	e.Item()
//	e.Text("a")
//	e.Item()
//	e.Text("b")
//	e.EndList(docxml.ListItemized)
//	if err := e.EndBlock(); err != nil {
//		log.Fatal(err)
//	}
//	fmt.Print(e.String())
//
// Rich text reaches the emitter as events from the Markdown front end
// (ConvertMarkdown), from event scripts (RunScript) or from direct calls.
// Whole models are written with Generate.
package docxml
