package logfields

import "go.uber.org/zap"

func DeliveryID(val string) zap.Field {
	return zap.String("github.delivery_id", val)
}

func EventType(val string) zap.Field {
	return zap.String("github.webhook_type", val)
}

func Action(val string) zap.Field {
	return zap.String("event_action", val)
}

func HeadBranch(val string) zap.Field {
	return zap.String("git.head_branch", val)
}

func BaseBranch(val string) zap.Field {
	return zap.String("git.base_branch", val)
}
