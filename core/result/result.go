package result

import (
	"encoding/csv"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/chainreactors/logs"
)

// Result is the record of one attack request. It is not modified after it has been appended.
type Result struct {
	SequenceID       int    `json:"sequence_id"`
	Payload          string `json:"payload"`
	Position         int    `json:"position"`
	StatusCode       int    `json:"status"`
	BodyLength       int    `json:"body_length"`
	Title            string `json:"title,omitempty"`
	ElapsedMs        int64  `json:"elapsed_ms"`
	FullRequestText  string `json:"request"`
	FullResponseText string `json:"response"`
	ErrString        string `json:"error,omitempty"`
	IsValid          bool   `json:"valid"`
	IsFiltered       bool   `json:"filtered"`
	Reason           string `json:"reason,omitempty"`
}

// Failed reports whether the request never got a response.
func (r *Result) Failed() bool {
	return r.StatusCode == 0
}

func (r *Result) positionString() string {
	if r.Position < 0 {
		return "all"
	}
	return strconv.Itoa(r.Position)
}

func (r *Result) Get(key string) string {
	switch key {
	case "id", "sequence":
		return strconv.Itoa(r.SequenceID)
	case "payload":
		return r.Payload
	case "position", "pos":
		return r.positionString()
	case "stat", "status":
		return strconv.Itoa(r.StatusCode)
	case "length", "len":
		return strconv.Itoa(r.BodyLength)
	case "title":
		return r.Title
	case "spend", "elapsed":
		return strconv.FormatInt(r.ElapsedMs, 10)
	case "reason":
		return r.Reason
	case "error", "err":
		return r.ErrString
	case "request":
		return r.FullRequestText
	case "response":
		return r.FullResponseText
	case "full":
		return r.String()
	default:
		return ""
	}
}

func (r *Result) ProbeOutput(format []string) string {
	var s strings.Builder
	for _, f := range format {
		s.WriteString("\t")
		s.WriteString(r.Get(f))
	}
	return strings.TrimSpace(s.String())
}

func (r *Result) String() string {
	var line strings.Builder
	line.WriteString("[" + strconv.Itoa(r.SequenceID) + "] ")
	line.WriteString(strconv.Quote(r.Payload))
	line.WriteString(" @" + r.positionString())
	if r.Reason != "" {
		line.WriteString(" [reason: " + r.Reason + "]")
	}
	if r.ErrString != "" {
		line.WriteString(" [err: " + r.ErrString + "]")
		return line.String()
	}
	line.WriteString(" - " + strconv.Itoa(r.StatusCode))
	line.WriteString(" - " + strconv.Itoa(r.BodyLength))
	line.WriteString(" - " + strconv.FormatInt(r.ElapsedMs, 10) + "ms")
	if r.Title != "" {
		line.WriteString(" [" + r.Title + "]")
	}
	return line.String()
}

func (r *Result) ColorString() string {
	var line strings.Builder
	line.WriteString("[" + logs.PurpleBold(strconv.Itoa(r.SequenceID)) + "] ")
	line.WriteString(logs.GreenLine(strconv.Quote(r.Payload)))
	line.WriteString(" @" + logs.Cyan(r.positionString()))
	if r.Reason != "" {
		line.WriteString(" [reason: ")
		line.WriteString(logs.YellowBold(r.Reason))
		line.WriteString("]")
	}
	if r.ErrString != "" {
		line.WriteString(" [err: ")
		line.WriteString(logs.RedBold(r.ErrString))
		line.WriteString("]")
		return line.String()
	}
	line.WriteString(" - ")
	line.WriteString(logs.GreenBold(strconv.Itoa(r.StatusCode)))
	line.WriteString(" - ")
	line.WriteString(logs.YellowBold(strconv.Itoa(r.BodyLength)))
	line.WriteString(" - ")
	line.WriteString(logs.YellowBold(strconv.FormatInt(r.ElapsedMs, 10) + "ms"))
	if r.Title != "" {
		line.WriteString(" [" + logs.Blue(r.Title) + "]")
	}
	return line.String()
}

func (r *Result) ToJson() string {
	bs, err := json.Marshal(r)
	if err != nil {
		return ""
	}
	return string(bs)
}

var CSVHeader = []string{"id", "payload", "position", "status", "length", "elapsed_ms", "valid", "filtered", "reason", "error"}

func (r *Result) CSVRecord() []string {
	return []string{
		strconv.Itoa(r.SequenceID),
		r.Payload,
		r.positionString(),
		strconv.Itoa(r.StatusCode),
		strconv.Itoa(r.BodyLength),
		strconv.FormatInt(r.ElapsedMs, 10),
		strconv.FormatBool(r.IsValid),
		strconv.FormatBool(r.IsFiltered),
		r.Reason,
		r.ErrString,
	}
}

func (r *Result) ToCSV() string {
	var s strings.Builder
	w := csv.NewWriter(&s)
	_ = w.Write(r.CSVRecord())
	w.Flush()
	return s.String()
}

func CSVHeaderLine() string {
	var s strings.Builder
	w := csv.NewWriter(&s)
	_ = w.Write(CSVHeader)
	w.Flush()
	return s.String()
}
