package inputcheck

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Category labels a kind of information the checker looks for.
type Category string

const (
	// CategoryGenre is the detected or missing game genre.
	CategoryGenre Category = "genre"
	// CategoryCoreConcept is the central play idea.
	CategoryCoreConcept Category = "core_concept"
	// CategoryPlatform is the target platform (optional).
	CategoryPlatform Category = "platform"
	// CategoryUniqueFeature is a differentiating mechanic or twist.
	CategoryUniqueFeature Category = "unique_feature"
	// CategoryArtStyle is the visual direction (optional).
	CategoryArtStyle Category = "art_style"
)

// MinSufficientScore is the confidence threshold above which a concept is
// considered detailed enough to generate from.
const MinSufficientScore = 0.4

var genreKeywords = map[string][]string{
	"action":        {"action", "combat", "battle", "fight", "brawler"},
	"rpg":           {"rpg", "role-playing", "role playing", "level up", "skill tree", "character growth"},
	"puzzle":        {"puzzle", "match", "block", "brain", "logic"},
	"simulation":    {"simulation", "sim", "tycoon", "management", "build and manage"},
	"roguelike":     {"roguelike", "roguelite", "permadeath", "procedural", "dungeon"},
	"platformer":    {"platformer", "jump", "side-scroller", "side scrolling"},
	"shooter":       {"shooter", "shooting", "fps", "bullet hell", "twin-stick"},
	"adventure":     {"adventure", "explore", "exploration", "quest", "journey"},
	"horror":        {"horror", "scary", "monster", "creepy", "fear"},
	"survival":      {"survival", "survive", "scavenge", "craft to live"},
	"racing":        {"racing", "race", "drive", "drift", "car"},
	"sports":        {"sports", "soccer", "football", "baseball", "basketball"},
	"fighting":      {"fighting", "versus", "1v1", "duel"},
	"sandbox":       {"sandbox", "creative", "build anything", "open-ended"},
	"rhythm":        {"rhythm", "music", "beat", "song"},
	"card_game":     {"card", "deckbuilding", "deck building", "tcg", "ccg"},
	"tower_defense": {"tower defense", "waves", "defend the base"},
	"idle":          {"idle", "clicker", "incremental", "automation"},
	"cozy":          {"cozy", "relaxing", "wholesome", "healing", "farming"},
}

var platformKeywords = map[string][]string{
	"pc":      {"pc", "desktop", "steam", "windows", "linux"},
	"web":     {"web", "browser", "html5"},
	"mobile":  {"mobile", "phone", "smartphone", "ios", "android", "app"},
	"console": {"console", "playstation", "xbox", "switch", "nintendo"},
	"vr":      {"vr", "virtual reality", "oculus", "quest headset"},
}

var artStyleKeywords = map[string][]string{
	"pixel_art":  {"pixel", "8-bit", "8bit", "16-bit", "16bit", "retro", "dot art"},
	"3d":         {"3d", "three-dimensional", "polygon"},
	"2d":         {"2d", "two-dimensional", "sprite"},
	"cartoon":    {"cartoon", "toon", "anime", "comic"},
	"realistic":  {"realistic", "photorealistic", "lifelike"},
	"minimalist": {"minimal", "minimalist", "simple shapes", "flat design"},
	"hand_drawn": {"hand drawn", "hand-drawn", "illustrated", "watercolor", "sketch"},
}

var conceptVerbs = []string{
	"build", "fight", "collect", "explore", "survive", "run", "jump", "shoot",
	"defend", "attack", "solve", "find", "grow", "manage", "craft", "trade",
	"race", "sneak", "tame", "farm", "cook", "climb",
}

var uniqueIndicators = []string{
	"unique", "special", "new", "different", "twist", "unlike", "original",
	"never seen", "first of its kind", "signature",
}

var mechanicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bwhen(ever)? you .+`),
	regexp.MustCompile(`(?i)\bby \w+ing\b`),
	regexp.MustCompile(`(?i)\b\w+ system\b`),
	regexp.MustCompile(`(?i)\bmechanic\b`),
	regexp.MustCompile(`(?i)\bability to\b`),
}

// Result is the outcome of a pre-flight check: what was detected, what is
// missing, the follow-up questions to ask, and an overall confidence score
// between 0 and 1.
type Result struct {
	Sufficient bool
	Questions  []string
	Missing    []Category
	Detected   map[Category]string
	Confidence float64
}

// FollowUp formats the follow-up questions as a numbered block, or an empty
// string when none are needed.
func (r Result) FollowUp() string {
	if len(r.Questions) == 0 {
		return ""
	}
	lines := []string{"The following information is needed:", ""}
	for i, q := range r.Questions {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, q))
	}
	return strings.Join(lines, "\n")
}

// matcher pairs a label with its compiled keyword pattern. Matchers are kept
// as a slice sorted by label so detection is deterministic when several
// keyword tables match the same prompt.
type matcher struct {
	name string
	re   *regexp.Regexp
}

// Checker scans a game concept for the information needed to generate a
// useful document. The zero value is not usable; construct with NewChecker.
type Checker struct {
	genres    []matcher
	platforms []matcher
	artStyles []matcher
}

// NewChecker compiles the keyword tables into matchers.
func NewChecker() *Checker {
	return &Checker{
		genres:    compilePatterns(genreKeywords),
		platforms: compilePatterns(platformKeywords),
		artStyles: compilePatterns(artStyleKeywords),
	}
}

func compilePatterns(keywords map[string][]string) []matcher {
	matchers := make([]matcher, 0, len(keywords))
	for category, kws := range keywords {
		escaped := make([]string, len(kws))
		for i, kw := range kws {
			escaped[i] = regexp.QuoteMeta(kw)
		}
		matchers = append(matchers, matcher{
			name: category,
			re:   regexp.MustCompile(`(?i)\b(` + strings.Join(escaped, "|") + `)\b`),
		})
	}
	sort.Slice(matchers, func(i, j int) bool { return matchers[i].name < matchers[j].name })
	return matchers
}

func detect(matchers []matcher, text string) string {
	for _, m := range matchers {
		if m.re.MatchString(text) {
			return m.name
		}
	}
	return ""
}

func hasCoreConcept(text string) bool {
	words := strings.Fields(text)
	if len(words) < 3 {
		return false
	}
	lower := strings.ToLower(text)
	for _, verb := range conceptVerbs {
		if strings.Contains(lower, verb) {
			return true
		}
	}
	// Enough words usually means at least a sketch of a concept.
	return len(words) >= 5
}

func hasUniqueFeature(text string) bool {
	lower := strings.ToLower(text)
	for _, ind := range uniqueIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	for _, p := range mechanicPatterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// Check validates a user concept and generates questions for missing
// information. Platform and art style are optional and never block
// sufficiency on their own.
func (c *Checker) Check(userPrompt string) Result {
	detected := map[Category]string{}
	var missing []Category
	var questions []string

	if len(strings.TrimSpace(userPrompt)) < 5 {
		return Result{
			Questions: []string{"Please describe your game concept in more detail. What kind of game do you want to make?"},
			Missing:   []Category{CategoryCoreConcept},
			Detected:  map[Category]string{},
		}
	}

	if genre := detect(c.genres, userPrompt); genre != "" {
		detected[CategoryGenre] = genre
	} else {
		missing = append(missing, CategoryGenre)
		questions = append(questions, "What genre is the game? (e.g. action, RPG, puzzle, simulation, roguelike)")
	}

	if hasCoreConcept(userPrompt) {
		detected[CategoryCoreConcept] = "detected"
	} else {
		missing = append(missing, CategoryCoreConcept)
		questions = append(questions, "What is the core play of the game? (what does the player do, and how does a session unfold?)")
	}

	if platform := detect(c.platforms, userPrompt); platform != "" {
		detected[CategoryPlatform] = platform
	}
	if style := detect(c.artStyles, userPrompt); style != "" {
		detected[CategoryArtStyle] = style
	}

	if hasUniqueFeature(userPrompt) {
		detected[CategoryUniqueFeature] = "detected"
	} else if detected[CategoryGenre] == "" || detected[CategoryCoreConcept] == "" {
		missing = append(missing, CategoryUniqueFeature)
		questions = append(questions, "What makes this game special or different from others like it?")
	}

	confidence := float64(len(detected)) / 5
	if detected[CategoryGenre] != "" && detected[CategoryCoreConcept] != "" {
		confidence = min(1.0, confidence+0.2)
	}

	sufficient := confidence >= MinSufficientScore
	if !sufficient {
		if detected[CategoryPlatform] == "" {
			questions = append(questions, "Is there a target platform? (e.g. PC, mobile, web, console)")
		}
	}

	return Result{
		Sufficient: sufficient,
		Questions:  questions,
		Missing:    missing,
		Detected:   detected,
		Confidence: confidence,
	}
}

// Enhance folds answers to follow-up questions back into the prompt. Answers
// are appended in sorted key order so the enhanced prompt is stable.
func Enhance(originalPrompt string, additional map[string]string) string {
	keys := make([]string, 0, len(additional))
	for key := range additional {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := []string{originalPrompt}
	for _, key := range keys {
		if value := additional[key]; strings.TrimSpace(value) != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", key, value))
		}
	}
	return strings.Join(parts, "\n")
}
