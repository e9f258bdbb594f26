package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	COMMAND_INIT     = iota
	COMMAND_VIP      = iota
	COMMAND_RESUMECV = iota
	COMMAND_INVITE   = iota
	COMMAND_WAITLIST = iota
	COMMAND_POSITION = iota
	COMMAND_AT       = iota
	COMMAND_RESYNC   = iota
	COMMAND_HELP     = iota
)

const (
	PARSEID_OK                     = iota
	PARSEID_NO_BOT_PREFIX          = iota
	PARSEID_NO_COMMAND             = iota
	PARSEID_COMMAND_NOT_RECOGNISED = iota
	PARSEID_NO_INPUT               = iota
	PARSEID_NOT_A_MEMBER           = iota
	PARSEID_NOT_A_TOGGLE           = iota
	PARSEID_NOT_A_POSITION         = iota
)

var errorMessages map[int]string = map[int]string{
	PARSEID_NO_COMMAND:             "No command provided",
	PARSEID_COMMAND_NOT_RECOGNISED: "Command `%s` not recognised",
	PARSEID_NO_INPUT:               "Command `%s` requires an argument",
	PARSEID_NOT_A_MEMBER:           "Input `%s` is not a member mention or id",
	PARSEID_NOT_A_TOGGLE:           "Input `%s` is not `on` or `off`",
	PARSEID_NOT_A_POSITION:         "Input `%s` is not a waitlist position",
}

// FlagArgs carries the target member and the desired flag value for
// the vip, resumecv and invite commands
type FlagArgs struct {
	MemberID int64
	Enable   bool
}

type ParseResult struct {
	command      int
	parseid      int
	errorMessage string
	arguments    interface{}
}

func Parse(message string, prefix string) ParseResult {

	noInput := func(command int, commandString string) ParseResult {
		parseid := PARSEID_NO_INPUT
		return ParseResult{command: command, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], commandString)}
	}

	// The message has to start with the bot prefix
	if !strings.HasPrefix(message, prefix) {
		log.Debug().Msg("Reject message not intended for the bot")
		return ParseResult{parseid: PARSEID_NO_BOT_PREFIX}
	}

	// Get the command if valid
	words := strings.Fields(strings.TrimSpace(message[len(prefix):]))
	if len(words) == 0 {
		parseid := PARSEID_NO_COMMAND
		return ParseResult{parseid: parseid, errorMessage: errorMessages[parseid]}
	}
	commandString := words[0]
	words = words[1:]

	// Match the command

	switch commandString {
	case "init":
		// <prefix> init
		return ParseResult{command: COMMAND_INIT, parseid: PARSEID_OK}
	case "vip":
		// <prefix> vip <member> on|off
		command := COMMAND_VIP
		if len(words) == 0 {
			return noInput(command, commandString)
		}
		return parseFlagArgs(command, words)
	case "resumecv":
		// <prefix> resumecv <member> on|off
		command := COMMAND_RESUMECV
		if len(words) == 0 {
			return noInput(command, commandString)
		}
		return parseFlagArgs(command, words)
	case "invite":
		// <prefix> invite <member> on|off
		command := COMMAND_INVITE
		if len(words) == 0 {
			return noInput(command, commandString)
		}
		return parseFlagArgs(command, words)
	case "waitlist":
		// <prefix> waitlist
		return ParseResult{command: COMMAND_WAITLIST, parseid: PARSEID_OK}
	case "position":
		// <prefix> position <member>
		command := COMMAND_POSITION
		if len(words) == 0 {
			return noInput(command, commandString)
		}
		memberid, ok := parseMemberID(words[0])
		if !ok {
			parseid := PARSEID_NOT_A_MEMBER
			return ParseResult{command: command, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], words[0])}
		}
		return ParseResult{command: command, parseid: PARSEID_OK, arguments: memberid}
	case "at":
		// <prefix> at <position>
		command := COMMAND_AT
		if len(words) == 0 {
			return noInput(command, commandString)
		}
		position, err := strconv.Atoi(words[0])
		if err != nil {
			parseid := PARSEID_NOT_A_POSITION
			return ParseResult{command: command, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], words[0])}
		}
		return ParseResult{command: command, parseid: PARSEID_OK, arguments: position}
	case "resync":
		// <prefix> resync
		return ParseResult{command: COMMAND_RESYNC, parseid: PARSEID_OK}
	case "help":
		// <prefix> help
		return ParseResult{command: COMMAND_HELP, parseid: PARSEID_OK}
	default:
		parseid := PARSEID_COMMAND_NOT_RECOGNISED
		return ParseResult{parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], commandString)}
	}
}

func parseFlagArgs(command int, words []string) ParseResult {

	memberid, ok := parseMemberID(words[0])
	if !ok {
		parseid := PARSEID_NOT_A_MEMBER
		return ParseResult{command: command, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], words[0])}
	}

	// The toggle defaults to on when omitted, matching the most
	// common use of these commands
	enable := true
	if len(words) > 1 {
		switch words[1] {
		case "on":
			enable = true
		case "off":
			enable = false
		default:
			parseid := PARSEID_NOT_A_TOGGLE
			return ParseResult{command: command, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], words[1])}
		}
	}

	return ParseResult{command: command, parseid: PARSEID_OK, arguments: FlagArgs{MemberID: memberid, Enable: enable}}
}

// Accept a raw snowflake or a discord mention (<@id> or <@!id>)
func parseMemberID(word string) (int64, bool) {
	trimmed := strings.TrimSuffix(strings.TrimPrefix(word, "<@"), ">")
	trimmed = strings.TrimPrefix(trimmed, "!")
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
