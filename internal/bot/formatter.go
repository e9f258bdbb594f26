package bot

import (
	"fmt"

	"waitlistbot/internal/roster"

	"github.com/bwmarrin/discordgo"
)

// Use "teal" color for the bot
const color int = 0x008080

func InputNotValid(errorMessage string) []Response {

	return []Response{ResponseString{fmt.Sprintf("Input not valid: \n> %s", errorMessage)}}
}

func PermissionDenied() []Response {

	return []Response{ResponseString{"You don't have permission to do that"}}
}

func NotInDatabase(you bool) []Response {

	if you {
		return []Response{ResponseString{"You are not in the database"}}
	}
	return []Response{ResponseString{"That member is not in the database"}}
}

func DatabaseInitialized(count int) []Response {

	return []Response{ResponseString{fmt.Sprintf("Database initialized with %d members", count)}}
}

func ResyncComplete() []Response {

	return []Response{ResponseString{"Roster resynced against the live member list"}}
}

func YourWaitlistPosition(position int) []Response {

	return []Response{ResponseString{fmt.Sprintf("You are number %d on the waitlist", position)}}
}

func MemberWaitlistPosition(member roster.Member, position int) []Response {

	return []Response{ResponseString{fmt.Sprintf("%s is number %d on the waitlist", member.Username, position)}}
}

func MemberAtPosition(position int, member roster.Member) []Response {

	return []Response{ResponseString{fmt.Sprintf("Number %d on the waitlist is %s", position, member.Username)}}
}

func PositionOutOfRange(position int) []Response {

	return []Response{ResponseString{fmt.Sprintf("There is no number %d on the waitlist", position)}}
}

func AlreadyInvited(you bool) []Response {

	if you {
		return []Response{ResponseString{"You have already been invited, so you are off the waitlist"}}
	}
	return []Response{ResponseString{"That member has already been invited, so they are off the waitlist"}}
}

func NotOnWaitlist(you bool) []Response {

	if you {
		return []Response{ResponseString{"You are not on the waitlist"}}
	}
	return []Response{ResponseString{"That member is not on the waitlist"}}
}

func FlagChanged(member roster.Member, flag roster.Flag, enabled bool) []Response {

	var list string
	switch flag {
	case roster.FlagVIP:
		list = "VIP list"
	case roster.FlagResumeCV:
		list = "resume.cv list"
	case roster.FlagInvited:
		list = "invited list"
	default:
		list = fmt.Sprintf("%s list", flag)
	}
	if enabled {
		return []Response{ResponseString{fmt.Sprintf("%s added to %s", member.Username, list)}}
	}
	return []Response{ResponseString{fmt.Sprintf("%s removed from %s", member.Username, list)}}
}

func SomethingWentWrong() []Response {

	return []Response{ResponseString{"Something went wrong, please try again later"}}
}

func HelpMessage(prefix string) []Response {

	embed := discordgo.MessageEmbed{Title: "Commands available", Color: color}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   fmt.Sprintf("`%s waitlist`", prefix),
		Value:  "Check your placement on the waitlist",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   fmt.Sprintf("`%s init`", prefix),
		Value:  "Initialize the database with all the members in the server (managers only)",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   fmt.Sprintf("`%s vip <member> on|off`", prefix),
		Value:  "Add a member to or remove them from the VIP list (managers only)",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   fmt.Sprintf("`%s resumecv <member> on|off`", prefix),
		Value:  "Add a member to or remove them from the resume.cv list (managers only)",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   fmt.Sprintf("`%s invite <member> on|off`", prefix),
		Value:  "Mark a member as invited, taking them off the waitlist (managers only)",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   fmt.Sprintf("`%s position <member>`", prefix),
		Value:  "Check another member's placement, with priority flags applied (managers only)",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   fmt.Sprintf("`%s at <position>`", prefix),
		Value:  "See who holds a given waitlist position (managers only)",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   fmt.Sprintf("`%s resync`", prefix),
		Value:  "Realign stored flags with the current server roles (managers only)",
		Inline: false,
	})
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:   fmt.Sprintf("`%s help`", prefix),
		Value:  "Print the usage of the different commands",
		Inline: false,
	})
	return []Response{ResponseEmbed{embed}}
}
