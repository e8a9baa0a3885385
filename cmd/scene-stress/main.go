// Profiling:
// go build ./cmd/scene-stress
// ./scene-stress -profile cpu -duration 5s
// go tool pprof -http=":8000" ./scene-stress cpu.pprof

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"github.com/plus3/scenery/ecs"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of entities to create.")
	behaviours := flag.Int("behaviours", 3, "The maximum number of behaviour components per entity.")
	collectionSize := flag.Int("collection", 4, "Elements per component collection (0 disables collections).")
	churn := flag.Float64("churn", 0.01, "Probability per frame that a wanderer respawns itself.")
	profileMode := flag.String("profile", "", "Write a profile to the working directory: cpu or mem.")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	switch *profileMode {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	default:
		log.Fatalf("Unknown profile mode %q (want cpu or mem)", *profileMode)
	}

	log.Println("Starting scene stress test...")

	// 1. Setup the scene and systems
	scene := ecs.NewScene(
		ecs.WithBehaviourSystem(),
		ecs.WithEntityCapacity(*entityCount),
	)
	workload := &Workload{
		MaxBehaviours:  *behaviours,
		CollectionSize: *collectionSize,
		Churn:          *churn,
		rng:            rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if err := workload.Install(scene); err != nil {
		log.Fatalf("Failed to install systems: %v", err)
	}

	// 2. Populate the scene with initial entities
	log.Printf("Populating scene with %d entities...\n", *entityCount)
	for i := 0; i < *entityCount; i++ {
		if err := workload.Spawn(scene); err != nil {
			log.Fatalf("Failed to spawn entity: %v", err)
		}
	}
	log.Println("Population complete.")

	// 3. Run the simulation loop
	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Behaviours:     *behaviours,
		CollectionSize: *collectionSize,
		GCPauseMetrics: *gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	log.Printf("Running simulation for %s...\n", *duration)
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			dt := float64(deltaTime) / float64(time.Second)
			scene.Update(dt)
			scene.Draw(dt)
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Finalize()
	report.Scene = scene.Stats()
	report.Spawned = workload.spawned
	report.Destroyed = workload.destroyed.Load()
	runtime.ReadMemStats(&report.MemStatsEnd)

	log.Println("Simulation finished.")

	// 4. Generate Report to Console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")

	log.Println("Stress test complete.")
}
