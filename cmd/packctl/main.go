// packctl inspects and converts packdb heap snapshots.
package main

func main() {
	execute()
}
