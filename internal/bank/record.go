package bank

// Column names expected in a question bank CSV header.
const (
	ColQuestion       = "Question"
	ColOptions        = "Options"
	ColCorrectAnswers = "Correct_Answers"
	ColAnswerLink     = "Answer_Link"
	ColImages         = "Images"
)

// requiredColumns must appear in every bank file header.
var requiredColumns = []string{ColQuestion, ColCorrectAnswers, ColAnswerLink}

// Record is one raw question row as loaded from a bank file.
// All fields are kept exactly as they appear in the source cell.
type Record struct {
	Question       string
	Options        string
	CorrectAnswers string
	AnswerLink     string
	Images         string

	// Source is the file the record was read from.
	Source string

	// Row is the 1-based data row within Source (the header is row 0).
	Row int
}

// Bank is the full collection of loaded question records.
type Bank struct {
	Records []Record

	// Files lists the files that were read successfully.
	Files []string

	// Warnings collects soft load failures (unreadable files, bad headers).
	Warnings []string
}

// Size returns the number of loaded records.
func (b *Bank) Size() int {
	if b == nil {
		return 0
	}
	return len(b.Records)
}

// Empty reports whether the bank holds no records.
func (b *Bank) Empty() bool {
	return b.Size() == 0
}
