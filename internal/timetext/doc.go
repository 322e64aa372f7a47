// Package timetext parses natural-language time ranges such as
// "17:30-19:00跑步" and resolves them into absolute, timezone-qualified
// instants.
//
// Parsing and resolution are split: ParseRange only extracts clock times and
// a title, while Resolver decides which calendar day the user meant (today or
// tomorrow, same-day or overnight). The split keeps the ambiguity rules
// testable with an injected clock.
package timetext
