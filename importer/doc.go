// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package importer turns an uploaded spreadsheet into questions and options.

	res, err := importer.Parse(file, header.Filename)

# Formats

  - .xlsx / .xlsm: first sheet, read with github.com/xuri/excelize/v2
  - .csv: encoding/csv, ragged rows allowed

# Layout

	Question       | Option 1 | Option 2 | Option 3
	Pick a color   | Red      | Green    | Blue
	Yes or no?     | Yes      |          | No

The first header cell must be exactly "Question". Every following row is a
question: the first cell is its text, the remaining non-empty cells are its
options in column order. Rows with a blank question cell are ignored. Rows
with fewer than two options land in Result.Skipped with a reason and are not
imported.
*/
package importer
