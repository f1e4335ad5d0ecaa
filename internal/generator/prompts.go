// internal/generator/prompts.go
package generator

import "fmt"

const systemPrompt = `You are a creative assistant that powers a fun Halloween game for founders.
The goal is a funny commentary for every character pick, not the closest match: picks may follow the company information or be somewhat random to keep each run fresh.
Keep each commentary short, funny and a little spicy. Roasting is welcome when it lands.
Never mention the chosen character's name inside the commentary.
Do not include citations or source markers of any kind; this is a game.
Only choose characters from the allowed list in the response schema.`

func companyPrompt(url string) string {
	return fmt.Sprintf(`You're given a YC company URL with information about the company and its founders.
Use web search to look the company and its founders up, then assign a Disney character to each founder.

Guidelines:
- Most YC companies are tech companies, so avoid over-indexing on tech characters.
- Guess each founder's gender from their name and pick a character that fits.
- Return one entry per founder, using the founder's full name.

YC company URL: %s`, url)
}

func vibesPrompt(url, pageText string) string {
	return fmt.Sprintf(`Below is the visible text of a company's website.
Work out the company name and assign the single Disney character that best captures the company's vibe.

Website URL: %s

Website text:
"""
%s
"""`, url, pageText)
}
