// Package tracelog is the deployment trace logging engine.
//
// A Dispatcher turns one Log call into zero or more lines appended to a log
// file, optionally mirrored to the console:
//
//	caller -> guard checks -> per message: render both formats
//	       -> append selected format -> mirror legacy line
//	       -> after all messages: rotate when over size
//
// Two on-disk formats are supported. The trace-tool format is the single
// line <![LOG[...]LOG]!> record understood by CMTrace style viewers; the
// legacy format is a bracketed plain text line.
//
// The engine never returns an error to its caller. Directory, write and
// rotation failures degrade to optional red console diagnostics, governed
// by Config.ContinueOnFailure.
//
// Configuration is a value. Each call copies the dispatcher's Config, applies
// its per-call Options and treats the result as immutable. State that must
// survive between calls (current phase, file logging latch, relaunch latch)
// lives in Session.
package tracelog
