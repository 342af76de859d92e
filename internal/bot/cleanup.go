package bot

import (
	"context"
	"log"
	"time"
)

// StartCleanupRoutine раз в interval удаляет из журнала голосования старше retention.
func StartCleanupRoutine(ctx context.Context, votes VoteLog, interval, retention time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				count, err := CleanupOldVotes(ctx, votes, now, retention)
				if err != nil {
					log.Println("Ошибка очистки журнала голосований:", err)
				} else if count > 0 {
					log.Printf("🧹 Удалено %d записей голосований", count)
				}
			}
		}
	}()
}

// CleanupOldVotes — удаляет записи, чьи опросы давно закончились.
func CleanupOldVotes(ctx context.Context, votes VoteLog, now time.Time, retention time.Duration) (int, error) {
	return votes.Prune(ctx, now.Add(-retention))
}
