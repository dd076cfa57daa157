package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/spigell/interview-screener/internal/engine"
	"github.com/spigell/interview-screener/internal/logger"
	"github.com/spigell/interview-screener/internal/store"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Run a screening interview in the terminal",
	Run: func(_ *cobra.Command, _ []string) {
		chat()
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

// chat drives a full interview in the terminal against the same engine
// the HTTP server uses. Useful for trying out script changes locally.
func chat() {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	interviewScript, job := loadScript(config.Script, logger)

	analyzer := prepareAnalyzer(ctx, config.AI, logger)
	eng := engine.New(interviewScript, job, analyzer, logger)

	conversationID := uuid.NewString()
	memory := store.NewMemory()

	result := eng.Greeting()
	recordTurn(ctx, memory, conversationID, "", result, logger)
	fmt.Printf("\nInterviewer: %s\n\n", result.Content)

	prompt := promptui.Prompt{Label: "You"}

	for !result.EndConversation {
		answer, err := prompt.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) {
				logger.Info("interview aborted")
				return
			}
			logger.Fatal("reading answer", zap.Error(err))
		}

		result = eng.Process(ctx, &engine.Request{
			NodeID:   result.NextNodeID,
			UserText: answer,
			UserData: result.UserData,
			Attempts: result.Attempts,
		})

		recordTurn(ctx, memory, conversationID, answer, result, logger)
		fmt.Printf("\nInterviewer: %s\n\n", result.Content)
	}

	logger.Info("interview finished",
		zap.String("conversation_id", conversationID),
		zap.Any("collected", result.UserData),
	)
}

func recordTurn(ctx context.Context, st store.Store, conversationID, userText string, result *engine.Result, logger *zap.Logger) {
	now := time.Now().UTC()

	if userText != "" {
		err := st.AppendMessage(ctx, conversationID, &store.Message{
			ID:        uuid.NewString(),
			Role:      store.RoleUser,
			Content:   userText,
			Timestamp: now,
		})
		if err != nil {
			logger.Warn("recording answer failed", zap.Error(err))
		}
	}

	err := st.AppendMessage(ctx, conversationID, &store.Message{
		ID:        uuid.NewString(),
		Role:      store.RoleAssistant,
		Content:   result.Content,
		Timestamp: now,
	})
	if err != nil {
		logger.Warn("recording question failed", zap.Error(err))
	}

	err = st.SaveState(ctx, conversationID, &store.State{
		CurrentNodeID:   result.NextNodeID,
		UserData:        result.UserData,
		ExampleAttempts: result.Attempts,
		Ended:           result.EndConversation,
	})
	if err != nil {
		logger.Warn("saving state failed", zap.Error(err))
	}
}
