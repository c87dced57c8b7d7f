package pkg

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chainreactors/logs"
)

func NewStatistor(name string) *Statistor {
	return &Statistor{
		Name:      name,
		Counts:    make(map[int]int),
		StartTime: time.Now().Unix(),
	}
}

// Statistor collects the running numbers of one attack.
type Statistor struct {
	Name           string      `json:"name"`
	Mode           string      `json:"mode"`
	Counts         map[int]int `json:"counts"`
	ReqTotal       int         `json:"req"`
	FailedNumber   int         `json:"failed"`
	FoundNumber    int         `json:"found"`
	FilteredNumber int         `json:"filtered"`
	Positions      int         `json:"positions"`
	Payloads       int         `json:"payloads"`
	Total          int         `json:"total"`
	StartTime      int64       `json:"start_time"`
	EndTime        int64       `json:"end_time"`
	Error          string      `json:"error"`
	Canceled       bool        `json:"canceled"`

	locker sync.Mutex
}

// Record accounts one finished request.
func (stat *Statistor) Record(status int, found, filtered bool) {
	stat.locker.Lock()
	defer stat.locker.Unlock()
	stat.ReqTotal++
	if status == 0 {
		stat.FailedNumber++
	}
	stat.Counts[status]++
	if found {
		stat.FoundNumber++
	}
	if filtered {
		stat.FilteredNumber++
	}
}

func (stat *Statistor) Found() int {
	if stat == nil {
		return 0
	}
	stat.locker.Lock()
	defer stat.locker.Unlock()
	return stat.FoundNumber
}

func (stat *Statistor) Finish() {
	stat.locker.Lock()
	stat.EndTime = time.Now().Unix()
	stat.locker.Unlock()
}

func (stat *Statistor) String() string {
	stat.locker.Lock()
	defer stat.locker.Unlock()
	var s strings.Builder
	s.WriteString(fmt.Sprintf("[stat] %s %s took %d s, request total: %d/%d, found: %d, failed: %d",
		stat.Name, stat.Mode, stat.EndTime-stat.StartTime, stat.ReqTotal, stat.Total, stat.FoundNumber, stat.FailedNumber))
	if stat.FilteredNumber != 0 {
		s.WriteString(", filtered: " + strconv.Itoa(stat.FilteredNumber))
	}
	if stat.Canceled {
		s.WriteString(", canceled")
	}
	if stat.Error != "" {
		s.WriteString(", error: " + stat.Error)
	}
	return s.String()
}

func (stat *Statistor) ColorString() string {
	stat.locker.Lock()
	defer stat.locker.Unlock()
	var s strings.Builder
	s.WriteString(fmt.Sprintf("[stat] %s %s took %s s, request total: %s/%d, found: %s, failed: %s",
		logs.GreenLine(stat.Name), stat.Mode,
		logs.YellowBold(strconv.Itoa(int(stat.EndTime-stat.StartTime))),
		logs.YellowBold(strconv.Itoa(stat.ReqTotal)), stat.Total,
		logs.GreenBold(strconv.Itoa(stat.FoundNumber)),
		logs.RedBold(strconv.Itoa(stat.FailedNumber))))
	if stat.FilteredNumber != 0 {
		s.WriteString(", filtered: " + logs.YellowBold(strconv.Itoa(stat.FilteredNumber)))
	}
	if stat.Canceled {
		s.WriteString(", " + logs.RedBold("canceled"))
	}
	if stat.Error != "" {
		s.WriteString(", error: " + logs.RedBold(stat.Error))
	}
	return s.String()
}

func (stat *Statistor) CountString() string {
	stat.locker.Lock()
	defer stat.locker.Unlock()
	if len(stat.Counts) == 0 {
		return ""
	}
	codes := make([]int, 0, len(stat.Counts))
	for k := range stat.Counts {
		codes = append(codes, k)
	}
	sort.Ints(codes)

	var s strings.Builder
	s.WriteString("[stat] ")
	s.WriteString(stat.Name)
	for _, k := range codes {
		if k == 0 {
			s.WriteString(fmt.Sprintf(" err: %d,", stat.Counts[k]))
			continue
		}
		s.WriteString(fmt.Sprintf(" %d: %d,", k, stat.Counts[k]))
	}
	return s.String()
}

func (stat *Statistor) Json() string {
	stat.locker.Lock()
	defer stat.locker.Unlock()
	content, err := json.Marshal(stat)
	if err != nil {
		return err.Error()
	}
	return string(content) + "\n"
}
