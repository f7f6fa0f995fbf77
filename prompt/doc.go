// Package prompt holds the system prompts for the designer (Actor) and
// reviewer (Critic) roles and the builders for their user messages. Revision
// messages carry only the previous document and its critique, never the full
// iteration history, keeping prompt size bounded.
package prompt
