package tool

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
)

// semester holds the key dates of one academic term. In a full deployment
// this data would come from the registrar's system, the table below stands in
// for it.
type semester struct {
	Name               string
	Start              string
	End                string
	RegistrationStart  string
	RegistrationEnd    string
	AddDropDeadline    string
	WithdrawalDeadline string
	Holidays           []holiday
	StudyDays          string
	FinalExams         string
}

type holiday struct {
	Name string
	Date string
}

// academicCalendar lists the terms the scheduling tools know about, in
// chronological order. Dates are MM/DD/YYYY.
var academicCalendar = []semester{
	{
		Name:               "Fall 2025",
		Start:              "09/01/2025",
		End:                "12/15/2025",
		RegistrationStart:  "07/15/2025",
		RegistrationEnd:    "08/20/2025",
		AddDropDeadline:    "09/15/2025",
		WithdrawalDeadline: "10/30/2025",
		Holidays: []holiday{
			{Name: "Labor Day", Date: "09/07/2025"},
			{Name: "Fall Break", Date: "10/12/2025 - 10/13/2025"},
			{Name: "Thanksgiving Break", Date: "11/25/2025 - 11/29/2025"},
		},
		StudyDays:  "12/16/2025 - 12/17/2025",
		FinalExams: "12/18/2025 - 12/22/2025",
	},
	{
		Name:               "Spring 2026",
		Start:              "01/15/2026",
		End:                "05/05/2026",
		RegistrationStart:  "11/15/2025",
		RegistrationEnd:    "12/20/2025",
		AddDropDeadline:    "01/29/2026",
		WithdrawalDeadline: "03/15/2026",
		Holidays: []holiday{
			{Name: "Martin Luther King Jr. Day", Date: "01/18/2026"},
			{Name: "Spring Break", Date: "03/08/2026 - 03/14/2026"},
		},
		StudyDays:  "05/06/2026 - 05/07/2026",
		FinalExams: "05/08/2026 - 05/12/2026",
	},
	{
		Name:               "Summer 2026",
		Start:              "06/01/2026",
		End:                "08/15/2026",
		RegistrationStart:  "04/01/2026",
		RegistrationEnd:    "05/15/2026",
		AddDropDeadline:    "06/10/2026",
		WithdrawalDeadline: "07/15/2026",
		Holidays: []holiday{
			{Name: "Independence Day", Date: "07/04/2026"},
		},
		StudyDays:  "08/16/2026",
		FinalExams: "08/17/2026 - 08/18/2026",
	},
}

var universityPolicies = map[string]string{
	"add_drop": "Students may add or drop courses without penalty during the first two weeks of the semester. " +
		"After the add/drop deadline, students cannot add courses but may withdraw with a 'W' grade.",
	"withdrawal": "Course withdrawal is allowed until the withdrawal deadline. A grade of 'W' will appear on the transcript. " +
		"After the withdrawal deadline, students will receive the grade earned in the course.",
	"graduation": "Students must submit a graduation application at least one semester before their intended " +
		"graduation date. All degree requirements must be completed by the end of the final semester.",
	"enrollment": "Full-time enrollment requires at least 12 credit hours per semester for undergraduates and " +
		"9 credit hours for graduate students. International students must maintain full-time enrollment.",
	"attendance": "Regular attendance is expected in all courses. Students who miss more than 25% of class sessions " +
		"may be administratively withdrawn at the instructor's discretion.",
	"incomplete": "An 'Incomplete' grade may be assigned when a student cannot complete coursework due to " +
		"circumstances beyond their control. Remaining work must be completed within one semester.",
}

// scheduleNow is swapped out in tests that pin the current-semester logic to
// a fixed date.
var scheduleNow = time.Now

// ScheduleTools bundles the scheduling assistant's capability set: calendar
// lookups, drop/withdrawal policy, enrollment status and exam schedules.
func ScheduleTools() []Tool {
	return []Tool{
		NewSemesterDatesTool(),
		NewDropPolicyTool(),
		NewEnrollmentStatusTool(),
		NewExamScheduleTool(),
	}
}

// NewSemesterDatesTool creates a tool listing the important dates of one term.
func NewSemesterDatesTool() *FunctionTool {
	return NewFunctionTool(
		"get_semester_dates",
		"Get important dates (start, end, registration, deadlines, holidays, exams) for a specific semester",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"semester": map[string]any{"type": "string", "description": "The semester, e.g. 'Fall 2025'"},
			},
			"required": []string{"semester"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			name, _ := args["semester"].(string)
			sem, ok := lookupSemester(name)
			if !ok {
				return fmt.Sprintf("Information for %s is not available. I have data for: %s.",
					titleCase(name), knownSemesters()), nil
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Important dates for %s:\n\n", sem.Name)
			fmt.Fprintf(&b, "Semester start: %s\n", sem.Start)
			fmt.Fprintf(&b, "Semester end: %s\n\n", sem.End)
			fmt.Fprintf(&b, "Registration period: %s to %s\n", sem.RegistrationStart, sem.RegistrationEnd)
			fmt.Fprintf(&b, "Add/drop deadline: %s\n", sem.AddDropDeadline)
			fmt.Fprintf(&b, "Withdrawal deadline: %s\n\n", sem.WithdrawalDeadline)
			b.WriteString("Holidays and breaks:\n")
			for _, h := range sem.Holidays {
				fmt.Fprintf(&b, "- %s: %s\n", h.Name, h.Date)
			}
			fmt.Fprintf(&b, "\nStudy days: %s\n", sem.StudyDays)
			fmt.Fprintf(&b, "Final exams: %s\n", sem.FinalExams)
			return b.String(), nil
		},
	)
}

// NewDropPolicyTool creates a tool describing the drop/withdrawal policy with
// the deadlines of the current term filled in.
func NewDropPolicyTool() *FunctionTool {
	return NewFunctionTool(
		"describe_drop_policy",
		"Describe the university's course drop and withdrawal policy with current deadlines",
		map[string]any{
			"type":       "object",
			"properties": map[string]any{},
		},
		func(_ context.Context, _ map[string]any) (any, error) {
			sem := closestSemester(scheduleNow())

			var b strings.Builder
			b.WriteString("University Course Drop/Withdrawal Policy:\n\n")
			b.WriteString(universityPolicies["add_drop"] + "\n\n")
			b.WriteString(universityPolicies["withdrawal"] + "\n\n")
			fmt.Fprintf(&b, "For %s:\n", sem.Name)
			fmt.Fprintf(&b, "Add/drop deadline: %s\n", sem.AddDropDeadline)
			fmt.Fprintf(&b, "Withdrawal deadline: %s\n\n", sem.WithdrawalDeadline)
			b.WriteString("Important notes:\n")
			b.WriteString("- Dropping a course before the add/drop deadline removes it completely from your record.\n")
			b.WriteString("- Withdrawing after the add/drop deadline but before the withdrawal deadline results in a 'W' grade.\n")
			b.WriteString("- After the withdrawal deadline, you will receive the grade earned in the course.\n")
			b.WriteString("- Always consult with your academic advisor before dropping or withdrawing from courses.")
			return b.String(), nil
		},
	)
}

// NewEnrollmentStatusTool creates a tool classifying a credit-hour load and
// its financial aid, housing, athletics and visa implications.
func NewEnrollmentStatusTool() *FunctionTool {
	return NewFunctionTool(
		"check_enrollment_status",
		"Check enrollment status (full-time, half-time, etc.) and its implications for a given number of credit hours",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"credit_hours": map[string]any{"type": "integer", "description": "Number of credit hours enrolled"},
			},
			"required": []string{"credit_hours"},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			hours := 0
			if h, ok := args["credit_hours"].(float64); ok {
				hours = int(h)
			}

			var status, financialAid string
			switch {
			case hours < 6:
				status = "Less than half-time"
				financialAid = "Limited eligibility for financial aid. Most loans and scholarships require at least half-time enrollment."
			case hours < 9:
				status = "Half-time"
				financialAid = "Eligible for some financial aid options, including some federal loans. Not eligible for full financial aid packages."
			case hours < 12:
				status = "Three-quarter time"
				financialAid = "Eligible for many financial aid options, but not considered full-time for some scholarships and grants."
			default:
				status = "Full-time"
				financialAid = "Eligible for full financial aid consideration, including maximum loan amounts, scholarships, and grants."
			}

			var b strings.Builder
			fmt.Fprintf(&b, "Enrollment status for %d credit hours: %s\n\n", hours, status)
			b.WriteString("Status implications:\n")
			fmt.Fprintf(&b, "- Financial aid: %s\n", financialAid)
			if status == "Full-time" {
				b.WriteString("- Housing: Eligible for on-campus housing priority.\n")
				b.WriteString("- Athletics: Meets NCAA eligibility requirements.\n")
				b.WriteString("- International students: Meets F-1/J-1 visa requirements.\n")
			} else {
				b.WriteString("- Housing: May affect eligibility for certain on-campus housing options.\n")
				if status == "Less than half-time" {
					b.WriteString("- Athletics: Does not meet NCAA eligibility requirements.\n")
				} else {
					b.WriteString("- Athletics: May not meet NCAA eligibility requirements. Consult with athletic department.\n")
				}
				b.WriteString("- International students: Does not meet F-1/J-1 visa requirements.\n")
			}
			return b.String(), nil
		},
	)
}

// NewExamScheduleTool creates a tool laying out the final exam schedule by
// class meeting pattern. The semester defaults to the current one.
func NewExamScheduleTool() *FunctionTool {
	return NewFunctionTool(
		"get_exam_schedule",
		"Get the final exam schedule for a semester, organized by class meeting pattern",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"semester": map[string]any{"type": "string", "description": "The semester, e.g. 'Fall 2025' (defaults to the current one)"},
			},
		},
		func(_ context.Context, args map[string]any) (any, error) {
			name, _ := args["semester"].(string)
			var sem semester
			if strings.TrimSpace(name) == "" {
				sem = closestSemester(scheduleNow())
			} else {
				var ok bool
				sem, ok = lookupSemester(name)
				if !ok {
					return fmt.Sprintf("Exam schedule for %s is not available. I have data for: %s.",
						titleCase(name), knownSemesters()), nil
				}
			}

			firstDay := sem.FinalExams
			if i := strings.Index(firstDay, " - "); i >= 0 {
				firstDay = firstDay[:i]
			}
			secondDay := nextExamDay(firstDay)

			var b strings.Builder
			fmt.Fprintf(&b, "Final Exam Schedule for %s:\n\n", sem.Name)
			fmt.Fprintf(&b, "Study days: %s\n", sem.StudyDays)
			fmt.Fprintf(&b, "Exam period: %s\n\n", sem.FinalExams)
			b.WriteString("Exam schedule by class meeting pattern:\n\n")
			b.WriteString("MWF classes:\n")
			fmt.Fprintf(&b, "- 8:00 AM - 9:15 AM: %s at 8:00 AM\n", firstDay)
			fmt.Fprintf(&b, "- 9:30 AM - 10:45 AM: %s at 10:30 AM\n", firstDay)
			fmt.Fprintf(&b, "- 11:00 AM - 12:15 PM: %s at 1:00 PM\n", firstDay)
			fmt.Fprintf(&b, "- Afternoon classes: %s at 3:30 PM\n\n", firstDay)
			b.WriteString("TR classes:\n")
			fmt.Fprintf(&b, "- 8:00 AM - 9:15 AM: %s at 8:00 AM\n", secondDay)
			fmt.Fprintf(&b, "- 9:30 AM - 10:45 AM: %s at 10:30 AM\n", secondDay)
			fmt.Fprintf(&b, "- 11:00 AM - 12:15 PM: %s at 1:00 PM\n", secondDay)
			fmt.Fprintf(&b, "- Afternoon classes: %s at 3:30 PM\n\n", secondDay)
			b.WriteString("Note: Evening classes, online classes, and classes with irregular meeting patterns will have ")
			b.WriteString("exams scheduled by the instructor. Please confirm all exam times with your instructors.")
			return b.String(), nil
		},
	)
}

func lookupSemester(name string) (semester, bool) {
	name = titleCase(name)
	for _, sem := range academicCalendar {
		if sem.Name == name {
			return sem, true
		}
	}
	return semester{}, false
}

func knownSemesters() string {
	names := make([]string, len(academicCalendar))
	for i, sem := range academicCalendar {
		names[i] = sem.Name
	}
	return strings.Join(names, ", ")
}

// closestSemester picks the calendar term matching the date's season, falling
// back to the first term when the year is outside the calendar.
func closestSemester(now time.Time) semester {
	var season string
	switch m := now.Month(); {
	case m <= time.May:
		season = "Spring"
	case m <= time.August:
		season = "Summer"
	default:
		season = "Fall"
	}
	want := fmt.Sprintf("%s %d", season, now.Year())
	for _, sem := range academicCalendar {
		if sem.Name == want {
			return sem
		}
	}
	return academicCalendar[0]
}

// titleCase normalizes a semester name ("fall 2025" becomes "Fall 2025").
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// nextExamDay advances a MM/DD/YYYY date by one day within the exam window.
func nextExamDay(day string) string {
	t, err := time.Parse("01/02/2006", day)
	if err != nil {
		return day
	}
	return t.AddDate(0, 0, 1).Format("01/02/2006")
}
