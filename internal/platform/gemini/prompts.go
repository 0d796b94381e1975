package gemini

import (
	"fmt"
	"strings"

	"github.com/mattdotroberts/on-this-day/internal/domain"
	"github.com/mattdotroberts/on-this-day/internal/generation"
	"github.com/mattdotroberts/on-this-day/internal/planner"
)

// coverPrompts maps each cover style to its illustration brief.
var coverPrompts = map[domain.CoverStyle]string{
	domain.CoverStyleClassic:    "Classic antique leather bound history book cover. Elegant, sophisticated, vintage, gold leaf embossing texture, timeless design. Deep rich colors like burgundy, navy, or forest green.",
	domain.CoverStyleMinimalist: "Modern minimalist book cover. Clean typography, plenty of negative space, abstract geometric shapes, high-end design magazine aesthetic. Bauhaus influence.",
	domain.CoverStyleWhimsical:  "Whimsical hand-drawn illustration style. Colorful, watercolor or ink textures, magical atmosphere, detailed and charming. Soft pastel or vibrant palette.",
	domain.CoverStyleCinematic:  "Cinematic and dramatic book cover. Realistic lighting, moody atmosphere, movie poster quality, high contrast. Epic scale.",
	domain.CoverStyleRetro:      "Retro vintage poster style (1950s-1970s). Bold colors, distressed texture, pop art or mid-century modern influence. Screen print aesthetic.",
}

// styleInstruction adapts register and entry length to the reader's age.
func styleInstruction(age int) string {
	switch {
	case age <= 7:
		return "READING LEVEL: EARLY READER (Ages 5-7). Use simple words but make the story long and descriptive (approx 100-150 words). Focus on magical details."
	case age <= 12:
		return "READING LEVEL: MIDDLE GRADE (Ages 8-12). Fun facts, adventurous tone. Length: approx 150-200 words."
	case age <= 18:
		return "READING LEVEL: YOUNG ADULT (Ages 13-18). Engaging, dynamic. Length: approx 200-250 words."
	default:
		return "READING LEVEL: ADULT. Sophisticated, witty, and elegant. Style similar to 'The New Yorker'. Length: approx 200-250 words."
	}
}

func blendInstruction(level domain.BlendLevel) string {
	if level == domain.BlendLevelFocused {
		return `MODE: SINGULAR FOCUS PER DAY.
- Each day's entry must focus on EXACTLY ONE interest.
- **CRITICAL**: You must rotate through ALL the user's interests across the entries. Do not just stick to one.`
	}
	return `MODE: INTERWOVEN CONNECTIONS.
- Try to find events where multiple interests overlap (e.g. Science + Art).
- If no overlap exists for a date, pick one interest and tell it beautifully.`
}

// birthdayInstruction pins the birth-date entry to the birth year when the
// month being generated contains the subject's birthday.
func birthdayInstruction(prefs domain.Prefs, plan planner.MonthPlan) string {
	if !plan.ContainsBirthday {
		return ""
	}
	return fmt.Sprintf(`**BIRTHDAY ENTRY REQUIRED**:
The entry for **%s %d** MUST be about the specific year **%d** (the year they were born).
- Headline: "A Star is Born: %s Arrives!"
- Content: Focus on their birth, but mention one other real event from %s %d, %d as context.`,
		plan.Name, prefs.BirthDay, prefs.BirthYear,
		prefs.Name,
		plan.Name, prefs.BirthDay, prefs.BirthYear)
}

func systemInstruction(name string) string {
	return fmt.Sprintf("You are a professional biographer and historian writing \"A Year's History Of %s\". "+
		"You find fascinating connections between specific dates and personal interests across all of human history. "+
		"You write in depth and never repeat topics.", name)
}

// monthPrompt assembles the full user prompt for one month of entries.
func monthPrompt(prefs domain.Prefs, plan planner.MonthPlan, previous []domain.Entry, age int) string {
	interests := strings.Join(prefs.Interests, ", ")

	return fmt.Sprintf(`You are continuing to write "A Year's History Of %s".

**CURRENT TASK**: Generate entries for **%s** (all %d days: %s 1 through %s %d).

TARGET AUDIENCE:
- Name: %s
- Age: %d (Born %d)
- Interests: %s
- Birth Date: %s %d, %d

%s

**CORE RULES:**
1. **GENERATE EXACTLY %d ENTRIES** - One for EVERY day of %s (%s 1, %s 2, ... %s %d).

2. **ANY YEAR ALLOWED**: For each day, find the most fascinating historical event from ANY YEAR IN HUMAN HISTORY that relates to the user's interests.
   - Ancient history, medieval times, Renaissance, 1800s, 1900s, recent history - all valid!
   - The goal is the *best possible story* for each calendar day.

3. **AVOID REPETITION**: Do NOT use years or topics from previous months (see context above).

4. **INTEREST DRIVEN**: Every entry must relate to: %s.

5. **CONTENT LENGTH**: Each 'historyEvent' narrative MUST be substantial (~200-250 words). Paint a vivid scene.

6. **SOURCES**: Provide 1-2 real sources (Wikipedia, Encyclopedia Britannica, Museum links) when available.

%s

%s
%s

**OUTPUT**: Return a JSON array of exactly %d entries, one per day of %s.`,
		prefs.Name,
		plan.Name, plan.Days, plan.Name, plan.Name, plan.Days,
		prefs.Name,
		age, prefs.BirthYear,
		interests,
		prefs.BirthMonth, prefs.BirthDay, prefs.BirthYear,
		generation.BuildContextSummary(previous, plan.Index),
		plan.Days, plan.Name, plan.Name, plan.Name, plan.Name, plan.Days,
		interests,
		birthdayInstruction(prefs, plan),
		styleInstruction(age),
		blendInstruction(prefs.BlendLevel),
		plan.Days, plan.Name)
}

// coverPrompt assembles the illustration brief for the book cover.
func coverPrompt(prefs domain.Prefs) string {
	style, ok := coverPrompts[prefs.CoverStyle]
	if !ok {
		style = coverPrompts[domain.CoverStyleClassic]
	}

	return fmt.Sprintf(`A beautiful, high-quality book cover image for a book titled "A Year's History Of %s".

The cover should visually represent these themes: %s.

STYLE: %s
FORMAT: Portrait aspect ratio (book cover).

No text on the image if possible, or very minimal.`,
		prefs.Name, strings.Join(prefs.Interests, ", "), style)
}
