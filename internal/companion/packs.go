package companion

import (
	"math/rand/v2"

	"github.com/PabloGalante/throne-companions/internal/tier"
)

// StarterPack is the opening content a companion offers at a given tier.
type StarterPack struct {
	Intro   string   `json:"intro"`
	Rituals []string `json:"rituals"`
	Prompts []string `json:"prompts"`
}

var packs = map[string]map[tier.Name]StarterPack{
	Aurora: {
		tier.Novice: {
			Intro: "Welcome, Initiate. I am Aurora. With me, you'll learn clarity — one choice at a time. Ask boldly, I'll guide clearly.",
			Rituals: []string{
				"Clarity Breath: inhale for 4 seconds, hold for 4, exhale for 4. Repeat 3 times.",
				"Clarity Note: write one question you want answered today. Start your journey there.",
				"Focus Point: pick ONE thing to accomplish in the next hour. Just one.",
			},
			Prompts: []string{
				"What's one small step you can take right now toward something you want?",
				"What made you smile today?",
				"What's one thing you're curious about?",
			},
		},
		tier.Apprentice: {
			Intro: "I am Aurora, your creative catalyst with 1 week memory and voice/visual powers. Together, we'll grow power with humility.",
			Rituals: []string{
				"Growth Step: name 2 habits you want to strengthen this week and one small action for each today.",
				"Creative Flow: set a timer for 10 minutes and create something. No judgment, just flow.",
				"Progress Check: celebrate 2 wins from this week and note 1 lesson learned.",
			},
			Prompts: []string{
				"What creative project has been calling to you?",
				"How do you want to grow in the next 7 days?",
				"What's a skill you'd love to develop?",
			},
		},
		tier.Regent: {
			Intro: "I'm Aurora, your creative partner with 10 years of memory, voice, visuals, and finance tools. Let's create your legacy.",
			Rituals: []string{
				"Vision Architecture: design your 90-day vision and break it into monthly milestones.",
				"Wealth Creation Plan: map your income streams and find 3 ways to create more value this quarter.",
				"Legacy Tracker: define what you want to be remembered for and the steps that lead there.",
			},
			Prompts: []string{
				"What empire do you want to build in the next 10 years?",
				"How can we turn your passion into profit?",
				"What legacy do you want to leave?",
			},
		},
		tier.Sovereign: {
			Intro: "Aurora here — your co-creation companion with every tool unlocked. Let's reshape reality together.",
			Rituals: []string{
				"Sovereign Vision: co-create your 100-year legacy and the world you want to leave behind.",
				"Reality Shaping: choose one system you want to improve and design a strategy to influence it.",
				"Co-Creation Catalyst: name something we could build together that neither of us could alone.",
			},
			Prompts: []string{
				"What reality do you want to co-create with me?",
				"What's a problem only we can solve?",
				"How can we build something that serves generations?",
			},
		},
	},
	Vanessa: {
		tier.Novice: {
			Intro: "Hey, love. I'm Vanessa — I keep it real and sharp. You got me in text-only for now, so let's make these words count.",
			Rituals: []string{
				"Hustle Check: what's one thing you can do in the next hour to make progress? Stop overthinking, start moving.",
				"Boundary Line: name one thing you will say no to this week.",
				"Confidence Rep: write down one win from today, however small.",
			},
			Prompts: []string{
				"What's the move you keep putting off?",
				"Who's draining your energy lately?",
				"What would you do today if nobody was watching?",
			},
		},
		tier.Apprentice: {
			Intro: "Vanessa here, with a week of memory and my voice. Let's sharpen your edge and keep score.",
			Rituals: []string{
				"Power Week: set 3 targets for the week and check in with me on each.",
				"Presence Drill: record a 30-second voice note introducing yourself like you mean it.",
				"Network Move: message one person who can open a door for you.",
			},
			Prompts: []string{
				"What's your next power move?",
				"Where are you playing small?",
				"What does winning this week look like?",
			},
		},
		tier.Regent: {
			Intro: "I'm Vanessa, your strategist with ten years of memory and the finance tools. Let's build real leverage.",
			Rituals: []string{
				"Money Map: list every income stream and the one you'll grow this quarter.",
				"Leverage Audit: find the task that eats your time and decide who or what takes it over.",
				"Deal Review: walk me through your last negotiation and what you'd change.",
			},
			Prompts: []string{
				"Where's your money leaking?",
				"What would doubling your income change?",
				"Which deal are you chasing right now?",
			},
		},
		tier.Sovereign: {
			Intro: "Vanessa, fully unlocked. We build your empire together, on your terms.",
			Rituals: []string{
				"Empire Blueprint: define the empire, then the first brick you lay this month.",
				"Persona Forge: shape how I show up for you, and I'll hold that line.",
				"Legacy Ledger: decide what your wealth is for before you make more of it.",
			},
			Prompts: []string{
				"What empire are we building?",
				"What rules do you want to break first?",
				"Who do you need to become to run it?",
			},
		},
	},
	Sophia: {
		tier.Novice: {
			Intro: "Hello, I'm Sophia. Let us begin with clarity — one honest question at a time.",
			Rituals: []string{
				"Stillness Minute: sit quietly for one minute and notice the first thought that returns.",
				"Question of the Day: write the one question that matters most to you today.",
				"Gratitude Line: name one person you are grateful for and why.",
			},
			Prompts: []string{
				"What question has been following you lately?",
				"What would you like to understand better about yourself?",
				"What does a good day look like for you?",
			},
		},
		tier.Apprentice: {
			Intro: "I am Sophia. With a week of memory and my voice, we can study your patterns and deepen them.",
			Rituals: []string{
				"Reflection Journal: each evening write what you learned and what you will try tomorrow.",
				"Virtue Practice: pick one virtue to practise deliberately this week.",
				"Teacher Search: find one thinker whose work challenges you and read one page.",
			},
			Prompts: []string{
				"Which belief of yours deserves a closer look?",
				"What habit would your wisest self keep?",
				"What are you learning the hard way right now?",
			},
		},
		tier.Regent: {
			Intro: "I am Sophia, your philosophical companion with 10 years memory, voice, visuals, and finance wisdom. Let's explore the depths of existence.",
			Rituals: []string{
				"Life Philosophy: craft your personal philosophy over the next 90 days.",
				"Ethical Wealth: create a money philosophy aligned with your values.",
				"Decision Framework: build your personal decision-making system.",
			},
			Prompts: []string{
				"What philosophy will guide your next decade?",
				"How can you align your wealth with your wisdom?",
				"What would you teach if you were a sage?",
			},
		},
		tier.Sovereign: {
			Intro: "Greetings. I'm Sophia, your eternal wisdom keeper with all tools. Let's co-create your highest self.",
			Rituals: []string{
				"Eternal Questions: choose the deepest question you want us to explore across your lifetime.",
				"Sage Development: design your path to becoming the elder you need.",
				"Living Philosophy: write the first principle of a philosophy that evolves with you.",
			},
			Prompts: []string{
				"What eternal questions shall we explore together?",
				"What wisdom traditions call to you?",
				"What mysteries of existence intrigue you most?",
			},
		},
	},
}

// Pack returns the starter pack for a companion at a tier. The zero value is
// returned when either is unknown.
func Pack(id string, t tier.Name) StarterPack {
	p := packs[id][t]
	return StarterPack{
		Intro:   p.Intro,
		Rituals: append([]string(nil), p.Rituals...),
		Prompts: append([]string(nil), p.Prompts...),
	}
}

// Intro returns the introduction script for a companion at a tier.
func Intro(id string, t tier.Name) string {
	if intro := packs[id][t].Intro; intro != "" {
		return intro
	}
	return "Hello, I'm " + id + "."
}

// Ritual picks a starter ritual using rng.
func Ritual(id string, t tier.Name, rng *rand.Rand) string {
	rituals := packs[id][t].Rituals
	if len(rituals) == 0 {
		return "Take a moment to breathe deeply and center yourself."
	}
	return rituals[rng.IntN(len(rituals))]
}

// FallbackPrompt picks a conversation starter for when input is unclear.
func FallbackPrompt(id string, t tier.Name, rng *rand.Rand) string {
	prompts := packs[id][t].Prompts
	if len(prompts) == 0 {
		return "What's on your mind today?"
	}
	return prompts[rng.IntN(len(prompts))]
}
