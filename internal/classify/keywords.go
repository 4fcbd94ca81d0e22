package classify

// Built-in keyword lists for cognitive-load classification. Heavy covers
// events demanding deep focus, decision-making, or intense collaboration;
// light covers breaks, personal time, and routine admin. Anything else
// classifies as medium. The two lists must stay literally disjoint; the
// constructor enforces this.

// DefaultHeavyKeywords match events requiring significant mental effort.
var DefaultHeavyKeywords = []string{
	// Meetings & collaboration (high intensity)
	"meeting",
	"interview",
	"presentation",
	"demo",
	"pitch",
	"negotiation",
	"brainstorm",
	"workshop",
	"retrospective",
	"retro",
	"planning",
	"sprint planning",
	"standup",
	"stand-up",
	"sync",
	"all-hands",
	"town hall",

	// Reviews & analysis
	"review",
	"code review",
	"design review",
	"performance review",
	"audit",
	"assessment",
	"evaluation",
	"analysis",
	"deep dive",

	// Decision making & strategy
	"strategy",
	"strategic",
	"decision",
	"prioritization",
	"roadmap",
	"architecture",
	"design session",

	// Training & learning (high intensity)
	"training",
	"onboarding",
	"certification",
	"exam",
	"learning session",
	"tutorial",

	// Problem solving & development
	"debugging",
	"troubleshooting",
	"incident",
	"postmortem",
	"post-mortem",
	"research",
	"investigation",
	"implementation",

	// Client & stakeholder management
	"client",
	"customer",
	"stakeholder",
	"executive",
	"board",
	"investor",
}

// DefaultLightKeywords match low-effort activities, breaks and routine tasks.
var DefaultLightKeywords = []string{
	// Breaks & personal time
	"lunch",
	"break",
	"coffee",
	"tea",
	"snack",
	"breakfast",
	"dinner",
	"meal",
	"rest",
	"personal",
	"break time",
	"time off",

	// Social & casual
	"social",
	"happy hour",
	"team building",
	"celebration",
	"birthday",
	"party",
	"casual",
	"chat",
	"watercooler",
	"informal",

	// Administrative (routine)
	"admin",
	"administrative",
	"calendar",
	"scheduling",
	"logistics",
	"setup",
	"cleanup",
	"organize",

	// Passive activities
	"fyi",
	"info",
	"information",
	"announcement",
	"update",
	"status update",
	"reminder",
	"notification",

	// Low-effort communication
	"check-in",
	"touch base",
	"quick sync",
	"office hours",
	"availability",
	"optional",

	// Wellness & fitness
	"exercise",
	"workout",
	"gym",
	"walk",
	"yoga",
	"meditation",
	"wellness",
}
