// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package dashboard

import "strconv"

// Chart is one percent histogram on the dashboard.
type Chart struct {
	ID       int
	Question int
	Title    string
	View     string
	Column   string
	// Order lists the categories to show first, in this order.
	Order []string
	// Notes is the short analysis printed under the chart.
	Notes []string
}

var (
	delayTypesOrder = []string{
		"No_delay", "Less than an hours", "1h to 3h", "3h to 6h",
		"6h to 12h", "12h to 24h", "Two day", "More than 3 days",
	}
	timeDeltaOrder = []string{
		"No_time_delta", "Less than an hours", "1h to 3h", "3h to 6h",
		"6h to 12h", "12h to 24h", "Two day", "More than 3 days",
	}
	endedDelayTypesOrder = []string{
		"No_delay", "Less than an hours", "1h to 3h", "3h to 6h",
		"6h to 12h", "12h to 24h", "Two day",
	}
	endedTimeDeltaOrder = []string{
		"No_time_delta", "Less than an hours", "1h to 3h", "3h to 6h",
		"6h to 12h", "12h to 24h", "two days",
	}
)

// Charts lists the dashboard histograms in page order.
var Charts = []Chart{
	{
		ID: 1, Question: 1, View: "F1", Column: "is_delay",
		Title: "Graph 1 - Percent of 'delay' of previous rental car",
		Notes: []string{
			"As we can see, drivers are at 56 % late for the previous_rental against 44% are not late.",
			"Let's dig a bit about late rental.",
		},
	},
	{
		ID: 2, Question: 2, View: "F2", Column: "state",
		Title: "Graph 2 - Percent of 'state' of late return of previous rental car",
		Notes: []string{
			"With surprise, we can see that when the driver are late, 78% keep their rental against 22% next driver canceled their rental.",
		},
	},
	{
		ID: 3, Question: 2, View: "F2", Column: "delay_types", Order: delayTypesOrder,
		Title: "Graph 3 - Percent of 'delay types' of late return of previous rental car",
		Notes: []string{
			"We can see with the Graph 3 that mostly people are late until 3h late. It's represent 90% of rental, this is huge !",
		},
	},
	{
		ID: 4, Question: 2, View: "F2", Column: "time_delta", Order: timeDeltaOrder,
		Title: "Graph 4 - Percent of 'time delta' of late return of previous rental car",
		Notes: []string{
			"Here we see that most of the late rental have a large gap with the next driver time.",
			"31 % had 6h to 12h between the next driver, 16 % had 3h to 6h and 25 % from 1h to 3h.",
			"We can notice as well that 14% had no delay between two rental car.",
		},
	},
	{
		ID: 5, Question: 2, View: "F3", Column: "delay_types", Order: delayTypesOrder,
		Title: "Graph 5 - Percent of 'delay types' of late return of previous rental car",
		Notes: []string{
			"Just for checking, on the state 'canceled', there is no time delay because they cancelled their rental car.",
		},
	},
	{
		ID: 6, Question: 2, View: "F3", Column: "time_delta", Order: timeDeltaOrder,
		Title: "Graph 6 - Percent of 'time delta' of late return of previous rental car",
		Notes: []string{
			"Here we can analyze that mostly of the 'canceled' state, had a gap of 6h to 12h at 35% and 17% with a gap from 3h to 6h.",
			"We can notice that this is not only because the previous rental are late. But they just canceled for unknown reason.",
			"But from no time delta to 3h late represent 42% of cancelation.",
		},
	},
	{
		ID: 7, Question: 2, View: "F3", Column: "checkin_type",
		Title: "Graph 7 - Percent of 'checkin type' of late return of previous rental car",
		Notes: []string{
			"Just to check the checkin_type distribution and as they are almost 50/50, this is not a feature that affect delay.",
		},
	},
	{
		ID: 8, Question: 2, View: "F4", Column: "delay_types", Order: endedDelayTypesOrder,
		Title: "Graph 8 - Percent of 'delay types' of late return of previous rental car",
		Notes: []string{
			"Most of people who keep their renting, can still rent the car until 3h late. It represent 87% under all delay_types.",
		},
	},
	{
		ID: 9, Question: 2, View: "F4", Column: "time_delta", Order: endedTimeDeltaOrder,
		Title: "Graph 9 - Percent of 'time_delta' of late return of previous rental car",
		Notes: []string{
			"Initially, people keep their renting because the time_delta is longer than other.",
			"We have 30% of people where the delta with previous rental last 6h to 12h.",
			"Then from 1h to 3h is the delay we saw previously that next driver can 'accept' the late.",
			"From 3h to 6h represent 16% that we can understand that is because the rate does not represent that more late (only 6%).",
		},
	},
	{
		ID: 10, Question: 2, View: "F5", Column: "checkin_type",
		Title: "Graph 10 - Percent of checkin_type of canceled rentals",
		Notes: []string{
			"From all cancelation the most check-in type is 'mobile' with 77%.",
		},
	},
}

// Question is one section of the dashboard.
type Question struct {
	Number int
	Title  string
	// Lead is printed under the heading, before any chart.
	Lead []string
	// Blocks follow the charts.
	Blocks []TextBlock
}

// TextBlock is a heading with paragraphs and bullets.
type TextBlock struct {
	Heading    string
	Paragraphs []string
	Bullets    []string
}

// Anchor is the in-page link target of the question.
func (q Question) Anchor() string {
	return "question-" + strconv.Itoa(q.Number)
}

const (
	pageTitle = "Getaround Dashboard Analysis"
	pageIntro = "Hello, here you will see some graph analysis to help you to optimize your activity and reduce your rental car delay."
)

var pageIntroBullets = []string{
	"We gonna answer questions to set up a threshold and a scope.",
	"Then we gonna optimize your rental car price.",
}

var decisionBullets = []string{
	"Threshold : How long should the minimum delay be ?",
	"Scope : Should we enable the feature for all cars ?, only Connect cars ?",
}

// Questions are the dashboard sections in page order.
var Questions = []Question{
	{Number: 1, Title: "How often are drivers late for the next check-in ?"},
	{
		Number: 2, Title: "How does it impact the next driver ?",
		Lead: []string{"To know how does it impact the next driver we gonna analyze late return."},
	},
	{
		Number: 3, Title: "How many problematic cases will it solve depending on the chosen threshold and scope ?",
		Blocks: []TextBlock{
			{
				Heading: "Setting the threshold and the scope",
				Bullets: []string{
					"We can see that a threshold of 3h between rental car will solve 42 % of canceling.",
					"But it is not only a minimum threshold we have to do because some canceling wasn't due to only delay.",
					"We can state to a minimum canceling at 24h before and if it is less, canceler have to pay an adapt price as penalty.",
					"In an other hand, check-in type has no influence about late, but there is 76% of canceling coming from Mobile check-in type.",
				},
			},
			{
				Heading: "Threshold",
				Bullets: []string{
					"Minimum time between two rental will be set up at 3h.",
					"Minimum canceling would be 24h before the time rental.",
				},
			},
			{
				Heading: "Scope",
				Bullets: []string{
					"Even it is almost 50/50 with previous rental, the type of checking is up to 76% for mobile. We should have an action on it.",
				},
				Paragraphs: []string{"So, now, we gonna measure the impact of those features (Threshold and Scope)."},
			},
		},
	},
	{
		Number: 4, Title: "How many rentals would be affected by the feature depending on the threshold and scope we choose ?",
		Blocks: []TextBlock{
			{
				Heading: "Threshold",
				Bullets: []string{
					"Minimum time between two rental will be set up at 3h: it will solve 86% of late rentals (Graph 8).",
					"Minimum canceling would be 24h before the time rental: it will solve 100% of canceling (Graph 6).",
				},
			},
			{
				Heading: "Scope",
				Paragraphs: []string{
					"Even it is almost 50/50 with previous rental, the type of checking is up to 77% for mobile.",
					"We should have an action on it. But need to know more about this feature.",
				},
			},
		},
	},
	{
		Number: 5, Title: "Which share of our owner's revenue would potentially be affected by the feature ?",
		Blocks: []TextBlock{
			{
				Bullets: []string{
					"The marketing",
					"App development with 'mobile' and 'connect'",
					"Legal",
					"Lawyer",
				},
			},
		},
	},
}

// LookupChart returns the chart with the given id.
func LookupChart(id int) (Chart, bool) {
	for _, c := range Charts {
		if c.ID == id {
			return c, true
		}
	}
	return Chart{}, false
}

// chartsFor returns the charts shown under question n.
func chartsFor(n int) []Chart {
	var out []Chart
	for _, c := range Charts {
		if c.Question == n {
			out = append(out, c)
		}
	}
	return out
}
