package bot

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"time"

	"waitlistbot/internal/common"
	"waitlistbot/internal/manager"
	"waitlistbot/internal/ranking"
	"waitlistbot/internal/roster"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
)

// Bot wires the discord gateway to the waitlist manager. It forwards
// lifecycle events as they arrive and dispatches prefix commands,
// checking the manager role once before any mutating operation
type Bot struct {
	token                string
	prefix               string
	managerRoleID        string
	manager              *manager.Manager
	housekeepingExecutor common.TimedExecutor
	housekeepingCycle    time.Duration
}

func NewBot(token string, prefix string, managerRoleID string, housekeepingCycle time.Duration, mgr *manager.Manager) *Bot {

	bot := &Bot{}

	bot.token = token
	bot.prefix = prefix
	bot.managerRoleID = managerRoleID
	bot.manager = mgr
	// Housekeeping periodically logs the size of the roster
	bot.housekeepingExecutor = common.NewTimedExecutor(housekeepingCycle, bot.housekeeping)
	bot.housekeepingCycle = housekeepingCycle

	return bot
}

func (bot *Bot) Run() error {
	// Create session
	discord, err := discordgo.New("Bot " + bot.token)
	if err != nil {
		return fmt.Errorf("could not create discord session: %w", err)
	}

	// The bot needs member and message content events
	discord.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	// Event handlers
	discord.AddHandler(bot.OnMemberJoined)
	discord.AddHandler(bot.OnMemberRemoved)
	discord.AddHandler(bot.Receive)

	// Open session
	if err := discord.Open(); err != nil {
		return fmt.Errorf("could not open discord session: %w", err)
	}
	defer discord.Close()

	// keep the bot running until there is an os interruption (ctrl + C)
	log.Info().Msg("Bot is running")
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	ticker := time.NewTicker(bot.housekeepingCycle)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			bot.housekeepingExecutor.Execute()
		case <-c:
			log.Info().Msg("Shutting down")
			return nil
		}
	}
}

func (bot *Bot) OnMemberJoined(discord *discordgo.Session, event *discordgo.GuildMemberAdd) {

	id, err := parseSnowflake(event.User.ID)
	if err != nil {
		log.Error().Err(err).Msg("Could not parse id of joining member")
		return
	}
	if err := bot.manager.MemberJoined(id, event.User.String(), event.JoinedAt); err != nil {
		log.Error().Err(err).Msg(fmt.Sprintf("Could not record joining member %d", id))
	}
}

func (bot *Bot) OnMemberRemoved(discord *discordgo.Session, event *discordgo.GuildMemberRemove) {

	id, err := parseSnowflake(event.User.ID)
	if err != nil {
		log.Error().Err(err).Msg("Could not parse id of leaving member")
		return
	}
	if err := bot.manager.MemberRemoved(id); err != nil {
		log.Error().Err(err).Msg(fmt.Sprintf("Could not remove leaving member %d", id))
	}
}

func (bot *Bot) Receive(discord *discordgo.Session, message *discordgo.MessageCreate) {

	// Reject my own messages and messages from other bots
	if message.Author.ID == discord.State.User.ID || message.Author.Bot {
		return
	}

	// Ignore messages from private channels
	if message.GuildID == "" {
		log.Debug().Msg("Ignoring private message")
		return
	}

	// Every guild message from a human counts as activity,
	// commands included
	authorid, err := parseSnowflake(message.Author.ID)
	if err != nil {
		log.Error().Err(err).Msg("Could not parse id of message author")
		return
	}
	if err := bot.manager.ActivityObserved(authorid); err != nil {
		log.Error().Err(err).Msg(fmt.Sprintf("Could not record activity of member %d", authorid))
	}

	// Parse the input provided and call the appropriate function
	parseResult := Parse(message.Content, bot.prefix)
	switch parseResult.parseid {
	case PARSEID_NO_BOT_PREFIX:
		return
	case PARSEID_OK:
		log.Debug().Msg(fmt.Sprintf("Command understood: %s", message.Content))
		var responses []Response
		switch parseResult.command {
		case COMMAND_INIT:
			responses = bot.requireManager(message, func() []Response {
				return bot.initialize(discord, message.GuildID)
			})
		case COMMAND_VIP:
			responses = bot.requireManager(message, func() []Response {
				return bot.setFlag(parseResult.arguments.(FlagArgs), roster.FlagVIP)
			})
		case COMMAND_RESUMECV:
			responses = bot.requireManager(message, func() []Response {
				return bot.setFlag(parseResult.arguments.(FlagArgs), roster.FlagResumeCV)
			})
		case COMMAND_INVITE:
			responses = bot.requireManager(message, func() []Response {
				return bot.setInvited(parseResult.arguments.(FlagArgs))
			})
		case COMMAND_WAITLIST:
			responses = bot.waitlist(authorid)
		case COMMAND_POSITION:
			responses = bot.requireManager(message, func() []Response {
				return bot.position(parseResult.arguments.(int64))
			})
		case COMMAND_AT:
			responses = bot.requireManager(message, func() []Response {
				return bot.at(parseResult.arguments.(int))
			})
		case COMMAND_RESYNC:
			responses = bot.requireManager(message, func() []Response {
				return bot.resync(discord, message.GuildID)
			})
		case COMMAND_HELP:
			responses = HelpMessage(bot.prefix)
		default:
			panic(fmt.Sprintf("Command %d is not one of the possible ones", parseResult.command))
		}
		bot.sendResponses(discord, message.ChannelID, responses)
	default:

		// The command is invalid input, so it contains an error message
		errorMessage := parseResult.errorMessage
		log.Debug().Msg(fmt.Sprintf("Wrong input: '%s'. Reason: %s", message.Content, errorMessage))
		bot.sendResponses(discord, message.ChannelID, InputNotValid(errorMessage))
	}
}

// The single capability check applied before any mutating or
// admin-only command. A denial is a user-visible outcome, not a
// system error
func (bot *Bot) requireManager(message *discordgo.MessageCreate, command func() []Response) []Response {

	if message.Member == nil || !slices.Contains(message.Member.Roles, bot.managerRoleID) {
		log.Debug().Msg(fmt.Sprintf("Member %s lacks the manager role", message.Author.ID))
		return PermissionDenied()
	}
	return command()
}

func (bot *Bot) initialize(discord *discordgo.Session, guildid string) []Response {

	live, err := bot.fetchLiveMembers(discord, guildid)
	if err != nil {
		log.Error().Err(err).Msg("Could not fetch live members for init")
		return SomethingWentWrong()
	}
	count, err := bot.manager.InitializeFromRoster(live)
	if err != nil {
		log.Error().Err(err).Msg("Could not initialize the roster")
		return SomethingWentWrong()
	}
	return DatabaseInitialized(count)
}

func (bot *Bot) setFlag(args FlagArgs, flag roster.Flag) []Response {

	member, err := bot.manager.SetFlag(args.MemberID, flag, args.Enable)
	if err != nil {
		if errors.Is(err, roster.ErrNotFound) {
			return NotInDatabase(false)
		}
		log.Error().Err(err).Msg(fmt.Sprintf("Could not set flag %s for member %d", flag, args.MemberID))
		return SomethingWentWrong()
	}
	return FlagChanged(member, flag, args.Enable)
}

func (bot *Bot) setInvited(args FlagArgs) []Response {

	member, err := bot.manager.SetInvited(args.MemberID, args.Enable)
	if err != nil {
		if errors.Is(err, roster.ErrNotFound) {
			return NotInDatabase(false)
		}
		log.Error().Err(err).Msg(fmt.Sprintf("Could not set invited flag for member %d", args.MemberID))
		return SomethingWentWrong()
	}
	return FlagChanged(member, roster.FlagInvited, args.Enable)
}

func (bot *Bot) waitlist(authorid int64) []Response {

	position, err := bot.manager.WaitlistPosition(authorid, ranking.Simple)
	if err != nil {
		switch {
		case errors.Is(err, manager.ErrAlreadyInvited):
			return AlreadyInvited(true)
		case errors.Is(err, manager.ErrNotOnWaitlist):
			return NotOnWaitlist(true)
		case errors.Is(err, roster.ErrNotFound):
			return NotInDatabase(true)
		default:
			log.Error().Err(err).Msg(fmt.Sprintf("Could not compute waitlist position of member %d", authorid))
			return SomethingWentWrong()
		}
	}
	return YourWaitlistPosition(position)
}

func (bot *Bot) position(memberid int64) []Response {

	position, err := bot.manager.WaitlistPosition(memberid, ranking.Priority)
	if err != nil {
		switch {
		case errors.Is(err, manager.ErrAlreadyInvited):
			return AlreadyInvited(false)
		case errors.Is(err, manager.ErrNotOnWaitlist):
			return NotOnWaitlist(false)
		case errors.Is(err, roster.ErrNotFound):
			return NotInDatabase(false)
		default:
			log.Error().Err(err).Msg(fmt.Sprintf("Could not compute waitlist position of member %d", memberid))
			return SomethingWentWrong()
		}
	}
	member, err := bot.manager.Member(memberid)
	if err != nil {
		log.Error().Err(err).Msg(fmt.Sprintf("Could not fetch member %d after ranking", memberid))
		return SomethingWentWrong()
	}
	return MemberWaitlistPosition(member, position)
}

func (bot *Bot) at(position int) []Response {

	member, err := bot.manager.MemberAtPosition(position, ranking.Priority)
	if err != nil {
		if errors.Is(err, ranking.ErrOutOfRange) {
			return PositionOutOfRange(position)
		}
		log.Error().Err(err).Msg(fmt.Sprintf("Could not look up waitlist position %d", position))
		return SomethingWentWrong()
	}
	return MemberAtPosition(position, member)
}

func (bot *Bot) resync(discord *discordgo.Session, guildid string) []Response {

	live, err := bot.fetchLiveMembers(discord, guildid)
	if err != nil {
		log.Error().Err(err).Msg("Could not fetch live members for resync")
		return SomethingWentWrong()
	}
	if err := bot.manager.ResyncAll(live); err != nil {
		log.Error().Err(err).Msg("Could not resync the roster")
		return SomethingWentWrong()
	}
	return ResyncComplete()
}

// Page through the guild member list, 1000 members at a time
func (bot *Bot) fetchLiveMembers(discord *discordgo.Session, guildid string) ([]manager.LiveMember, error) {

	live := []manager.LiveMember{}
	after := ""
	for {
		members, err := discord.GuildMembers(guildid, after, 1000)
		if err != nil {
			return nil, fmt.Errorf("could not fetch members of guild %s: %w", guildid, err)
		}
		if len(members) == 0 {
			return live, nil
		}
		for _, member := range members {
			if member.User == nil {
				continue
			}
			after = member.User.ID
			if member.User.Bot {
				continue
			}
			id, err := parseSnowflake(member.User.ID)
			if err != nil {
				log.Error().Err(err).Msg("Skipping member with unparseable id")
				continue
			}
			live = append(live, manager.LiveMember{
				ID:       id,
				Username: member.User.String(),
				JoinedAt: member.JoinedAt,
				RoleIDs:  member.Roles,
			})
		}
	}
}

func (bot *Bot) sendResponses(discord *discordgo.Session, channelid string, responses []Response) {
	for _, response := range responses {
		response.Send(channelid, discord)
	}
}

func (bot *Bot) housekeeping() {

	total, waiting, invited, err := bot.manager.Stats()
	if err != nil {
		log.Error().Err(err).Msg("Could not compute roster stats")
		return
	}
	log.Info().Msg(fmt.Sprintf("Roster holds %d members: %d waiting, %d invited", total, waiting, invited))
}

func parseSnowflake(id string) (int64, error) {
	return strconv.ParseInt(id, 10, 64)
}
