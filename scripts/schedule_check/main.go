// Command schedule_check audits a published exam schedule through the
// HTTP API. It fetches every requested exam type and reports room
// double-bookings and events with no room at all, exiting non-zero when
// any conflict is found. Intended for CI smoke checks after a planning
// run.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"
)

type event struct {
	ID         string    `json:"id"`
	CourseCode string    `json:"course_code"`
	ExamType   string    `json:"exam_type"`
	StartAt    time.Time `json:"start_at"`
	EndAt      time.Time `json:"end_at"`
	RoomIDs    []string  `json:"room_ids"`
}

type envelope struct {
	Data  []event `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type conflict struct {
	RoomID string
	First  event
	Second event
}

func main() {
	var (
		base       string
		token      string
		department string
		types      string
		timeout    time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&token, "token", "", "Bearer access token")
	flag.StringVar(&department, "department", "", "department ID (admin tokens only)")
	flag.StringVar(&types, "types", "midterm,final,makeup", "comma separated exam types to audit")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	if token == "" {
		token = os.Getenv("EXAM_PLANNER_TOKEN")
	}
	if token == "" {
		log.Fatal("missing access token: pass -token or set EXAM_PLANNER_TOKEN")
	}

	client := &http.Client{Timeout: timeout}
	var (
		conflicts []conflict
		roomless  []event
		total     int
	)

	for _, examType := range strings.Split(types, ",") {
		examType = strings.TrimSpace(examType)
		if examType == "" {
			continue
		}
		events, err := fetchSchedule(client, base, token, department, examType)
		if err != nil {
			log.Fatalf("fetch %s schedule: %v", examType, err)
		}
		total += len(events)
		for _, ev := range events {
			if len(ev.RoomIDs) == 0 {
				roomless = append(roomless, ev)
			}
		}
		conflicts = append(conflicts, findRoomConflicts(events)...)
	}

	printReport(total, conflicts, roomless)
	if len(conflicts) > 0 || len(roomless) > 0 {
		os.Exit(1)
	}
}

func fetchSchedule(client *http.Client, base, token, department, examType string) ([]event, error) {
	url := strings.TrimRight(base, "/") + "/api/v1/exams?type=" + examType
	if department != "" {
		url += "&departmentId=" + department
	}

	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if env.Error != nil {
		return nil, fmt.Errorf("%s: %s", env.Error.Code, env.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return env.Data, nil
}

// findRoomConflicts reports every pair of events that occupy the same
// room over overlapping half-open intervals.
func findRoomConflicts(events []event) []conflict {
	byRoom := make(map[string][]event)
	for _, ev := range events {
		for _, roomID := range ev.RoomIDs {
			byRoom[roomID] = append(byRoom[roomID], ev)
		}
	}

	roomIDs := make([]string, 0, len(byRoom))
	for id := range byRoom {
		roomIDs = append(roomIDs, id)
	}
	sort.Strings(roomIDs)

	var conflicts []conflict
	for _, roomID := range roomIDs {
		booked := byRoom[roomID]
		sort.Slice(booked, func(i, j int) bool { return booked[i].StartAt.Before(booked[j].StartAt) })
		for i := 1; i < len(booked); i++ {
			if booked[i].StartAt.Before(booked[i-1].EndAt) {
				conflicts = append(conflicts, conflict{RoomID: roomID, First: booked[i-1], Second: booked[i]})
			}
		}
	}
	return conflicts
}

func printReport(total int, conflicts []conflict, roomless []event) {
	fmt.Println("Schedule Audit Report")
	fmt.Println("=====================")
	fmt.Printf("Events checked: %d\n", total)

	for _, c := range conflicts {
		fmt.Printf("[CONFLICT] room %s: %s (%s) overlaps %s (%s)\n",
			c.RoomID,
			c.First.CourseCode, c.First.StartAt.Format(time.RFC3339),
			c.Second.CourseCode, c.Second.StartAt.Format(time.RFC3339))
	}
	for _, ev := range roomless {
		fmt.Printf("[NO ROOM] %s %s at %s\n", ev.CourseCode, ev.ExamType, ev.StartAt.Format(time.RFC3339))
	}
	if len(conflicts) == 0 && len(roomless) == 0 {
		fmt.Println("No conflicts found")
	}
}
