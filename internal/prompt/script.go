package prompt

// Answer is one scripted reply to Prompt.
type Answer struct {
	Text string
	OK   bool
}

// Says is an accepted answer with the given text.
func Says(text string) Answer {
	return Answer{Text: text, OK: true}
}

// Cancelled is a dismissed prompt.
var Cancelled = Answer{}

// Script replays queued answers in order and records every question asked.
// When a queue runs dry, Confirm says no and Prompt is cancelled.
type Script struct {
	Confirms []bool
	Answers  []Answer
	Asked    []string
}

// Confirm pops the next scripted confirmation.
func (s *Script) Confirm(question string) bool {
	s.Asked = append(s.Asked, question)
	if len(s.Confirms) == 0 {
		return false
	}
	yes := s.Confirms[0]
	s.Confirms = s.Confirms[1:]
	return yes
}

// Prompt pops the next scripted answer.
func (s *Script) Prompt(question, def string) (string, bool) {
	s.Asked = append(s.Asked, question)
	if len(s.Answers) == 0 {
		return "", false
	}
	a := s.Answers[0]
	s.Answers = s.Answers[1:]
	return a.Text, a.OK
}
