// Package review defines the Critic's structured verdict on a document:
// the approve/revise decision, blocking issues, the five-dimension score
// framework and the consistency rules binding them together.
package review
