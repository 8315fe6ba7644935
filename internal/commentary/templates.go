package commentary

import (
	"math/rand"
	"strings"

	"github.com/okian/sportscast/internal/domain/model"
)

// kindTemplates holds three lines per resolved kind. Selection is
// uniformly random on purpose: repeated calls for the same event vary
// for the sake of the broadcast, not by accident.
var kindTemplates = map[model.Kind][]string{
	model.KindStar: {
		"🌟 INCREDIBLE! {actor} just starred {repo}! The crowd goes wild!",
		"⭐ AMAZING! {actor} has given {repo} a star! The energy is electric!",
		"🔥 OH MY! {repo} gets another star from {actor}! Unstoppable!",
	},
	model.KindFork: {
		"🍴 UNBELIEVABLE! {actor} just forked {repo}! This project is on fire!",
		"💥 WOW! {repo} has been forked by {actor}! The community loves it!",
		"🚀 FANTASTIC! {actor} forked {repo}! The innovation continues!",
	},
	model.KindPullRequest: {
		"📝 BREAKING! {actor} opened a pull request in {repo}! Contributions are flowing!",
		"💪 OUTSTANDING! {actor} submits a PR to {repo}! Teamwork in action!",
		"🎉 EXCITING! A new pull request from {actor} in {repo}!",
	},
	model.KindPush: {
		"💻 PHENOMENAL! {actor} just pushed commits to {repo}! The code is evolving!",
		"⚡ LIGHTNING FAST! {actor} commits to {repo}! Development never stops!",
		"🔨 BRILLIANT! New commits from {actor} in {repo}!",
	},
	model.KindIssue: {
		"🐛 ATTENTION! {actor} opened an issue in {repo}! Community engagement!",
		"📋 NOTABLE! {actor} reports an issue in {repo}! Quality matters!",
		"🔍 HEADS UP! {actor} files an issue against {repo}! Eyes on the ball!",
	},
	model.KindRelease: {
		"🎊 HISTORIC! {repo} just released a new version! {actor} leads the charge!",
		"🚀 MAJOR MILESTONE! {repo} drops a new release! The crowd erupts!",
		"📦 SHIP IT! {actor} publishes a release for {repo}! What a moment!",
	},
	model.KindCreate: {
		"🏗️ GROUNDBREAKING! {actor} creates something new in {repo}!",
		"✨ FRESH OFF THE PRESS! {actor} spins up a new branch in {repo}!",
		"🌱 A NEW CONTENDER! {actor} breaks ground in {repo}!",
	},
	model.KindComment: {
		"💬 THE DEBATE HEATS UP! {actor} weighs in on {repo}!",
		"🗣️ COMMENTARY FROM THE STANDS! {actor} speaks up in {repo}!",
		"📣 HEAR THAT? {actor} drops a comment in {repo}!",
	},
}

// genericTemplates covers kinds without a dedicated set.
var genericTemplates = []string{
	"🎯 ACTION! {actor} makes a move on {repo}!",
	"⚡ SOMETHING'S HAPPENING! {actor} stirs things up in {repo}!",
	"🏟️ THE PLAY CONTINUES! {actor} keeps {repo} in the game!",
}

// renderTemplate picks one line for the event and interpolates it.
func renderTemplate(ev model.Event) string {
	set, ok := kindTemplates[ev.Kind]
	if !ok {
		set = genericTemplates
	}
	line := set[rand.Intn(len(set))]
	return strings.NewReplacer("{actor}", ev.Actor, "{repo}", ev.Repo).Replace(line)
}

// templatesFor exposes the candidate lines for a kind, interpolated for
// the given event. Used by tests to assert fallback membership.
func templatesFor(ev model.Event) []string {
	set, ok := kindTemplates[ev.Kind]
	if !ok {
		set = genericTemplates
	}
	r := strings.NewReplacer("{actor}", ev.Actor, "{repo}", ev.Repo)
	out := make([]string, len(set))
	for i, line := range set {
		out[i] = r.Replace(line)
	}
	return out
}
