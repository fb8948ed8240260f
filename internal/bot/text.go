package bot

const welcomeText = `🍽 Welcome to MealsBot, %s!

This bot coordinates weekly meal planning for the household. Every Monday at 9:00 AM it sends a survey asking which meals you need; the house chef plans around everyone's answers.

Commands:
/start - show this welcome message
/help - how the bot works
/survey - fill out this week's meal survey
/my_responses - see your answers for this week
/group - using the bot in a group chat
/admin - admin panel (admin only)`

const helpText = `🍽 MealsBot Help

How it works:
1. Every Monday at 9:00 AM you get a survey asking about your meal needs
2. Tap the buttons to toggle which meals you need on which days
3. Your answers save instantly; submit when you're done
4. The house chef sees a summary of everyone's needs

Commands:
/start - welcome message and registration
/help - this message
/survey - request your survey now
/my_responses - review this week's answers
/group - using the bot in a group chat
/admin - admin panel (admin only)

You can change your answers anytime, even after submitting. Questions or problems? Contact the admin.`

const groupText = `💬 Using MealsBot in a group

Add the bot to your household's group chat and have the admin run /admin there. "Send Surveys Here" posts everyone's survey into the group; each grid only responds to its own member, so nobody can change anyone else's answers.

For private surveys, each member should also /start the bot in a direct chat.`
