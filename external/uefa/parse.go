package uefa

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pollahq/polla-champions/internal/domain/standings"
)

var parentheticalRegex = regexp.MustCompile(`\s*\(.*\)`)
var letterRegex = regexp.MustCompile(`\p{L}`)
var digitRegex = regexp.MustCompile(`-?\d+`)

// parseStandingsHTML pulls team rows out of every <table> on the page.
// Column layouts shift between seasons, so extraction is positional: the
// first lettered cell is the team, the trailing numeric cells are read
// right to left as points, goal difference and goals for.
func parseStandingsHTML(raw []byte) ([]standings.Row, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var rows []standings.Row
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		table.Find("tr").Each(func(rowIdx int, tr *goquery.Selection) {
			if rowIdx == 0 && tr.Find("th").Length() > 0 {
				return
			}

			cells := make([]string, 0, 12)
			tr.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
				cells = append(cells, strings.TrimSpace(cell.Text()))
			})
			if len(cells) == 0 {
				return
			}

			row, ok := extractRow(cells)
			if !ok {
				return
			}
			rows = append(rows, row)
		})
	})

	if len(rows) == 0 {
		return nil, fmt.Errorf("no standings rows found in page")
	}

	return rows, nil
}

func extractRow(cells []string) (standings.Row, bool) {
	team := ""
	for _, cell := range cells {
		if letterRegex.MatchString(cell) {
			team = cleanTeamName(cell)
			break
		}
	}
	if team == "" {
		return standings.Row{}, false
	}

	numbers := make([]int, 0, len(cells))
	for _, cell := range cells {
		if letterRegex.MatchString(cell) {
			continue
		}
		matched := digitRegex.FindString(cell)
		if matched == "" {
			continue
		}
		value, err := strconv.Atoi(matched)
		if err != nil {
			continue
		}
		numbers = append(numbers, value)
	}
	if len(numbers) == 0 {
		return standings.Row{}, false
	}

	row := standings.Row{
		CanonicalName: team,
		Points:        numbers[len(numbers)-1],
	}
	if len(numbers) >= 2 {
		row.GoalDifference = numbers[len(numbers)-2]
	}
	if len(numbers) >= 3 {
		row.GoalsFor = numbers[len(numbers)-3]
	}
	if len(numbers) >= 8 {
		// Full layout trailing cells: played, won, drawn, lost, GF, GA, GD, points.
		row.Played = numbers[len(numbers)-8]
		row.Won = numbers[len(numbers)-7]
		row.Draw = numbers[len(numbers)-6]
		row.Lost = numbers[len(numbers)-5]
		row.GoalsFor = numbers[len(numbers)-4]
	}

	return row, true
}

func cleanTeamName(raw string) string {
	name := parentheticalRegex.ReplaceAllString(raw, "")
	return strings.TrimSpace(name)
}
